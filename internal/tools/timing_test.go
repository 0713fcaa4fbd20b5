package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimevalSub(t *testing.T) {
	cases := []struct {
		stop, start, want Timeval
	}{
		{Timeval{10, 500}, Timeval{4, 200}, Timeval{6, 300}},
		{Timeval{10, 100}, Timeval{9, 900000}, Timeval{0, 100100}},
		{Timeval{10, 0}, Timeval{7, 999999}, Timeval{2, 1}},
		{Timeval{3, 2500000}, Timeval{1, 0}, Timeval{4, 500000}},
		{Timeval{5, 0}, Timeval{5, 0}, Timeval{0, 0}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.stop.Sub(c.start), "%v - %v", c.stop, c.start)
	}
}

func TestTimevalString(t *testing.T) {
	assert.Equal(t, "2.1", Timeval{2, 1}.String())
	assert.Equal(t, "0.100100", Timeval{0, 100100}.String())
}

func TestNowDelta(t *testing.T) {
	start := Now()
	d := Now().Sub(start)
	assert.GreaterOrEqual(t, d.Sec, int64(0))
	assert.True(t, d.Usec >= 0 && d.Usec < usecPerSec)
}
