package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalSubject(t *testing.T) {
	tests := map[string]string{
		"GoldCounter":       "addon.totals.GoldCounter",
		"Gold Counter v2.1": "addon.totals.Gold_Counter_v2_1",
		"a.b>*":             "addon.totals.a_b_",
		"":                  "addon.totals._",
	}
	for in, want := range tests {
		assert.Equal(t, want, TotalSubject(in), in)
	}
}
