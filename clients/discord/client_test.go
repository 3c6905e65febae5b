package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnowflakeLess(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"shorter is older", "99999", "100000", true},
		{"longer is newer", "100000", "99999", false},
		{"same length lexicographic", "100001", "100002", true},
		{"equal is not less", "100000", "100000", false},
		{"empty before anything", "", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snowflakeLess(tt.a, tt.b))
		})
	}
}
