package utils_test

import (
	"encoding/json"
	"testing"

	"improved-initiative/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"Nil", nil, 0},
		{"Int", 42, 42},
		{"Float", float64(1700000000123), 1700000000123},
		{"JSONNumber", json.Number("15"), 15},
		{"String", " 99 ", 99},
		{"FloatString", "12.7", 12},
		{"Bytes", []byte("7"), 7},
		{"Garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToInt64(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", utils.ToString(nil))
	assert.Equal(t, "abc", utils.ToString("abc"))
	assert.Equal(t, "abc", utils.ToString([]byte("abc")))
	assert.Equal(t, "3", utils.ToString(float64(3)))
	assert.Equal(t, "12", utils.ToString(12))
}

func TestToBool(t *testing.T) {
	assert.True(t, utils.ToBool(true))
	assert.True(t, utils.ToBool(1))
	assert.True(t, utils.ToBool("TRUE"))
	assert.True(t, utils.ToBool([]byte("1")))
	assert.False(t, utils.ToBool(0))
	assert.False(t, utils.ToBool("no"))
	assert.False(t, utils.ToBool(nil))
}
