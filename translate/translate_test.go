package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	defer Use(FALLBACK)

	table := [](struct {
		tags   []string
		format string
		args   []any
		expect string
	}){
		{nil, "line %d", []any{3}, "line 3"},
		{[]string{"en-US"}, "%v '%v'", []any{"label", "loop"}, "label 'loop'"},
		{[]string{"de-DE", "en-US"}, "cell %X", []any{12}, "cell C"},
	}

	for _, entry := range table {
		Use(entry.tags...)
		assert.Equal(entry.expect, From(entry.format, entry.args...), entry.format)
	}
}
