package services

import (
	"testing"

	"github.com/nkk09/Cmps271/model"
)

func TestActionTypeForStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{model.ReviewStatusApproved, model.ModerationReviewApproved},
		{model.ReviewStatusRejected, model.ModerationReviewRejected},
		{model.ReviewStatusFlagged, model.ModerationReviewFlagged},
	}

	for _, tt := range tests {
		if got := actionTypeFor(tt.status); got != tt.want {
			t.Errorf("actionTypeFor(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
