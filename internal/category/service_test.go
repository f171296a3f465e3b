package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)
	svc := category.NewService(repo)

	repo.EXPECT().FindCategory(gomock.Any(), "lidl porto").Return("groceries", nil)

	got, err := svc.Suggest(context.Background(), "  LIDL   Porto ")
	require.NoError(t, err)
	assert.Equal(t, "groceries", got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Learn(t *testing.T) {
	tests := []struct {
		name        string
		description string
		category    string
		setupMock   func(m *category.MockRepository)
		wantErr     bool
	}{
		{
			name:        "SavesNormalizedRule",
			description: "Netflix  Subscription",
			category:    " streaming ",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().SaveRule(gomock.Any(), "netflix subscription", "streaming").Return(nil)
			},
		},
		{
			name:        "SkipsEmptyCategory",
			description: "Netflix",
			category:    "  ",
		},
		{
			name:        "SkipsEmptyDescription",
			description: "",
			category:    "streaming",
		},
		{
			name:        "SkipsAdjustments",
			description: "Opening balance adjustment for ana",
			category:    transaction.CategoryAdjustment,
		},
		{
			name:        "RepositoryError",
			description: "rent",
			category:    "housing",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().SaveRule(gomock.Any(), "rent", "housing").Return(errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := category.NewService(repo).Learn(context.Background(), tt.description, tt.category)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Fill(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)
	svc := category.NewService(repo)

	rows := []transaction.CreateParams{
		{Description: "Lidl Porto", Category: ""},
		{Description: "Salary", Category: "work"},
		{Description: "Unknown shop"},
		{Description: "Broken lookup"},
	}

	repo.EXPECT().FindCategory(gomock.Any(), "lidl porto").Return("groceries", nil)
	repo.EXPECT().FindCategory(gomock.Any(), "unknown shop").Return("", nil)
	repo.EXPECT().FindCategory(gomock.Any(), "broken lookup").Return("", errors.New("boom"))

	filled := svc.Fill(context.Background(), rows)

	assert.Equal(t, 1, filled)
	assert.Equal(t, "groceries", rows[0].Category)
	assert.Equal(t, "work", rows[1].Category)
	assert.Empty(t, rows[2].Category)
	assert.Empty(t, rows[3].Category)
}
