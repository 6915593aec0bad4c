package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace_String(t *testing.T) {
	assert := assert.New(t)

	trace, err := Simulate("LDA #1\nADD #3\nSTA (8)", 10)
	if !assert.NoError(err) {
		return
	}

	text := trace.String()
	assert.Contains(text, "Simulation (4 steps)")
	for _, header := range []string{"STEP", "PC", "ADDR BUS", "DATA BUS", "IR", "DR", "SR"} {
		assert.Contains(text, header)
	}
	assert.Contains(text, "LDA #1")
	assert.Contains(text, "ADD #3")
	assert.Contains(text, "STA (8)")
	assert.Contains(text, "[8] <- 4")
	assert.Contains(text, "halted")
	assert.Contains(text, "---")
}

func TestTrace_HTML(t *testing.T) {
	assert := assert.New(t)

	trace, err := Simulate("LDA #8\nADD #8", 10)
	if !assert.NoError(err) {
		return
	}

	html := trace.HTML()
	assert.True(strings.HasPrefix(html, "<table"))
	assert.Contains(html, "<th")
	assert.Contains(html, "LDA #8")
	assert.Contains(html, "CZ-")
	assert.Contains(html, "--N")
}

func TestTrace_Final(t *testing.T) {
	assert := assert.New(t)

	trace := &Trace{}
	assert.Equal(0, trace.Len())
	assert.Nil(trace.Final().Machine)
}
