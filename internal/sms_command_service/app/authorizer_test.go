package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSenderAuthorizer_Authorize(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name          string
		sender        string
		adminPhones   []string
		adminErr      error
		officerPhones []string
		officerErr    error
		wantAuth      bool
		wantRole      string
		wantErrors    int
	}{
		{
			name:          "admin match after normalization",
			sender:        "+1 (404) 555-0101",
			adminPhones:   []string{"404-555-0101"},
			officerPhones: []string{},
			wantAuth:      true,
			wantRole:      RoleAdmin,
		},
		{
			name:          "officer match",
			sender:        "4045550199",
			adminPhones:   []string{"4045550101"},
			officerPhones: []string{"+14045550199"},
			wantAuth:      true,
			wantRole:      RoleOfficer,
		},
		{
			name:          "no match in either set",
			sender:        "+15555550000",
			adminPhones:   []string{"4045550101"},
			officerPhones: []string{"4045550199"},
		},
		{
			name:          "admin source fails, officer still consulted",
			sender:        "4045550199",
			adminErr:      dbErr,
			officerPhones: []string{"(404) 555-0199"},
			wantAuth:      true,
			wantRole:      RoleOfficer,
			wantErrors:    1,
		},
		{
			name:       "both sources fail",
			sender:     "4045550199",
			adminErr:   dbErr,
			officerErr: dbErr,
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(MockProfileRepository)
			officers := new(MockOfficerRepository)
			profiles.On("ListAdminPhones", mock.Anything).Return(tt.adminPhones, tt.adminErr).Once()
			officers.On("ListActiveOfficerPhones", mock.Anything).Return(tt.officerPhones, tt.officerErr).Once()

			a := NewSenderAuthorizer(profiles, officers, testLogger())
			res := a.Authorize(context.Background(), tt.sender)

			assert.Equal(t, tt.wantAuth, res.Authorized)
			assert.Equal(t, tt.wantRole, res.Role)
			assert.Len(t, res.Errors, tt.wantErrors)
			for _, se := range res.Errors {
				assert.ErrorIs(t, se, dbErr)
			}
			profiles.AssertExpectations(t)
			officers.AssertExpectations(t)
		})
	}
}

func TestSenderAuthorizer_EmptySenderSkipsLookups(t *testing.T) {
	profiles := new(MockProfileRepository)
	officers := new(MockOfficerRepository)

	res := NewSenderAuthorizer(profiles, officers, testLogger()).Authorize(context.Background(), "anonymous")

	assert.False(t, res.Authorized)
	assert.Empty(t, res.NormalizedSender)
	profiles.AssertNotCalled(t, "ListAdminPhones", mock.Anything)
	officers.AssertNotCalled(t, "ListActiveOfficerPhones", mock.Anything)
}
