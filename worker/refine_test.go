package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueDropsWhenFull(t *testing.T) {
	r := NewRefiner(nil, nil, nil, 2)
	// Consumer not started, so the channel fills at capacity.
	assert.True(t, r.Enqueue("p1", false))
	assert.True(t, r.Enqueue("p2", true))
	assert.False(t, r.Enqueue("p3", false))
}

func TestChanged(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"identical", []string{"c1", "c2"}, []string{"c1", "c2"}, false},
		{"order ignored", []string{"c2", "c1"}, []string{"c1", "c2"}, false},
		{"extra element", []string{"c1"}, []string{"c1", "c2"}, true},
		{"different element", []string{"c1"}, []string{"c2"}, true},
		{"both empty", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, changed(tt.a, tt.b))
		})
	}
}

func TestStopDrainsQueue(t *testing.T) {
	r := NewRefiner(nil, nil, nil, 4)
	r.Start()
	r.Stop()
	assert.False(t, r.Enqueue("p1", false))
}
