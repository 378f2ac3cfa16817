package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	handler := NewInterruptHandler(nil, "Import", "")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptShowsMessageOnce(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output, "Import", "Transactions created so far were kept.")

	handler.interrupt()
	handler.interrupt()

	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(output.String(), "Import interrupted!"))
	assert.Contains(t, output.String(), "Transactions created so far were kept.")
}

func TestInterruptMessageWithoutNote(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output, "Import", "")

	handler.showInterruptMessage()

	assert.Contains(t, output.String(), "Import interrupted!")
	assert.NotContains(t, output.String(), "kept")
}

func TestHandleInterruptsStop(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{}, "Import", "")

	ctx, stop := handler.HandleInterrupts(context.Background())
	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled before stop")
	default:
	}

	stop()
	<-ctx.Done()
	assert.False(t, handler.WasInterrupted(), "stopping is not an interrupt")
}
