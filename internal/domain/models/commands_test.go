package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    CommandType
		args    []string
	}{
		{name: "empty", message: "   ", want: CommandUnknown},
		{name: "stock without tank", message: "/stock", want: CommandStock},
		{name: "stock with tank", message: "Stock T1", want: CommandStock, args: []string{"T1"}},
		{name: "balance", message: "/balance abc-123", want: CommandBalance, args: []string{"abc-123"}},
		{name: "convert", message: "convert 100 185", want: CommandConvert, args: []string{"100", "185"}},
		{name: "truck", message: "/truck t-9", want: CommandTruck, args: []string{"t-9"}},
		{name: "unknown", message: "hello there", want: CommandUnknown, args: []string{"there"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.message)
			assert.Equal(t, tt.want, cmd.Type)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}
}
