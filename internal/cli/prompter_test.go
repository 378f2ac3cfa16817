package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterAsk(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("ana@example.com\n\n"), &out)
	ctx := context.Background()

	answer, err := p.Ask(ctx, "Email", "")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", answer)

	answer, err = p.Ask(ctx, "Name", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", answer, "empty answer takes the fallback")

	assert.Contains(t, out.String(), "Email")
	assert.Contains(t, out.String(), "Name [Ana]")
}

func TestPrompterSecretFromPipe(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hunter2\n"), &out)

	secret, err := p.Secret(context.Background(), "Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
	assert.NotContains(t, out.String(), "hunter2")
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "maybe\n", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), "Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompterEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Ask(context.Background(), "Email", "")
	assert.Error(t, err)
}
