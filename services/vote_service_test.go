package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archalley/forum/models"
)

func TestDecideToggle(t *testing.T) {
	up := &models.Vote{Type: models.VoteUp}
	down := &models.Vote{Type: models.VoteDown}

	tests := []struct {
		name      string
		existing  *models.Vote
		requested string
		want      string
	}{
		{"no existing vote creates", nil, models.VoteUp, VoteCreated},
		{"same direction removes", up, models.VoteUp, VoteRemoved},
		{"same direction removes down", down, models.VoteDown, VoteRemoved},
		{"opposite direction updates", up, models.VoteDown, VoteUpdated},
		{"opposite direction updates up", down, models.VoteUp, VoteUpdated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideToggle(tt.existing, tt.requested))
		})
	}
}

func TestToggleRejectsInvalidType(t *testing.T) {
	svc := NewVoteService(nil, nil, 0, nil)
	_, err := svc.Toggle(context.Background(), "u1", "p1", "SIDEWAYS")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
