package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ClaimStatus
		ok       bool
	}{
		{ClaimStatusPending, ClaimStatusSubmitted, true},
		{ClaimStatusSubmitted, ClaimStatusAccepted, true},
		{ClaimStatusSubmitted, ClaimStatusRejected, true},
		{ClaimStatusAccepted, ClaimStatusPaid, true},
		{ClaimStatusRejected, ClaimStatusSubmitted, true},

		{ClaimStatusPending, ClaimStatusAccepted, false},
		{ClaimStatusPending, ClaimStatusPaid, false},
		{ClaimStatusSubmitted, ClaimStatusPending, false},
		{ClaimStatusSubmitted, ClaimStatusPaid, false},
		{ClaimStatusAccepted, ClaimStatusRejected, false},
		{ClaimStatusPaid, ClaimStatusSubmitted, false},
		{ClaimStatusPaid, ClaimStatusPending, false},
		{ClaimStatusRejected, ClaimStatusAccepted, false},
		{ClaimStatusPending, ClaimStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.ValidTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
