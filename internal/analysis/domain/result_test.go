package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeadlineInfo(t *testing.T) {
	date := "2024-03-01"
	r := &Result{Deadline: &Deadline{Date: &date, Description: "Report"}}

	info := r.DeadlineInfo()

	assert.True(t, info.HasDeadline)
	assert.Equal(t, &date, info.DeadlineDate)
	assert.Nil(t, info.DeadlineTime)
	if assert.NotNil(t, info.DeadlineDescription) {
		assert.Equal(t, "Report", *info.DeadlineDescription)
	}
}

func TestDeadlineInfoAbsent(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.HasDeadline())
	assert.Equal(t, DeadlineInfo{}, (&Result{}).DeadlineInfo())
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidCategory("work"))
	assert.False(t, IsValidCategory("spam"))
	assert.True(t, IsValidSentiment("negative"))
	assert.False(t, IsValidSentiment("angry"))
}
