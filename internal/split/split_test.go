package split_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/split"
)

func members(names ...string) []split.Member {
	out := make([]split.Member, 0, len(names))
	for _, n := range names {
		out = append(out, split.Member{ID: uuid.New(), Name: n})
	}

	return out
}

func TestEqual_ComputeShares(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		members []split.Member
		want    []string
	}{
		{
			name:    "NoMembers",
			amount:  "10.00",
			members: nil,
			want:    nil,
		},
		{
			name:    "SingleMember",
			amount:  "42.50",
			members: members("Ana"),
			want:    []string{"42.5"},
		},
		{
			name:    "EvenDivision",
			amount:  "90.00",
			members: members("Ana", "Bruno", "Carla"),
			want:    []string{"30", "30", "30"},
		},
		{
			name:    "UnevenDivisionIsNotRedistributed",
			amount:  "100.00",
			members: members("Ana", "Bruno", "Carla"),
			want:    []string{"33.33", "33.33", "33.33"},
		},
		{
			name:    "RoundsHalfUp",
			amount:  "0.05",
			members: members("Ana", "Bruno"),
			want:    []string{"0.03", "0.03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := split.Equal{}.ComputeShares(decimal.RequireFromString(tt.amount), tt.members)
			require.Len(t, got, len(tt.want))

			for i, s := range got {
				assert.True(t, decimal.RequireFromString(tt.want[i]).Equal(s.Amount), "share %d: got %s", i, s.Amount)
				assert.Equal(t, tt.members[i].Name, s.MemberName)
				assert.Equal(t, tt.members[i].ID, s.MemberID)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("MarksExactlyThePayer", func(t *testing.T) {
		shares := split.Build(split.Equal{}, decimal.NewFromInt(60), "Bruno", members("Ana", "Bruno", "Carla"))
		require.Len(t, shares, 3)

		var paid []string
		for _, s := range shares {
			if s.IsPaid {
				paid = append(paid, s.MemberName)
			}
		}

		assert.Equal(t, []string{"Bruno"}, paid)
	})

	t.Run("UnknownPayerPaysNothing", func(t *testing.T) {
		shares := split.Build(split.Equal{}, decimal.NewFromInt(60), "bruno", members("Ana", "Bruno"))
		for _, s := range shares {
			assert.False(t, s.IsPaid)
		}
	})

	t.Run("ZeroMembers", func(t *testing.T) {
		assert.Nil(t, split.Build(split.Equal{}, decimal.NewFromInt(60), "Ana", nil))
	})

	t.Run("SumWithinOneCentPerMember", func(t *testing.T) {
		amount := decimal.RequireFromString("1000.01")

		for n := 1; n <= 13; n++ {
			names := make([]string, n)
			for i := range names {
				names[i] = uuid.NewString()
			}

			shares := split.Build(nil, amount, names[0], members(names...))
			require.Len(t, shares, n)

			sum := decimal.Zero
			for _, s := range shares {
				sum = sum.Add(s.Amount)
			}

			tolerance := decimal.New(int64(n), -2)
			assert.True(t, sum.Sub(amount).Abs().LessThanOrEqual(tolerance), "n=%d sum=%s", n, sum)
		}
	})

	t.Run("CustomStrategy", func(t *testing.T) {
		shares := split.Build(payerTakesAll{}, decimal.NewFromInt(50), "Ana", members("Ana", "Bruno"))
		require.Len(t, shares, 2)
		assert.True(t, shares[0].IsPaid)
		assert.True(t, decimal.NewFromInt(50).Equal(shares[0].Amount))
		assert.True(t, shares[1].Amount.IsZero())
	})
}

type payerTakesAll struct{}

func (payerTakesAll) ComputeShares(amount decimal.Decimal, members []split.Member) []split.Share {
	shares := make([]split.Share, len(members))
	for i, m := range members {
		shares[i] = split.Share{MemberID: m.ID, MemberName: m.Name}
	}

	shares[0].Amount = amount

	return shares
}
