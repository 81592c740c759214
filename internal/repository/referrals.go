package repository

import (
	"context"
	"fmt"

	"neftit_waitlist/internal/model"
)

type referralCount struct {
	ID            int64     `db:"id"`
	Email         string    `db:"email"`
	Name          *string   `db:"name"`
	CreatedAt     timestamp `db:"created_at"`
	ReferralCount int       `db:"referral_count"`
}

func (r *Repository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	query, args, err := r.sb.
		Insert("referrals").
		SetMap(map[string]interface{}{
			"referrer_email": referral.ReferrerEmail,
			"referred_email": referral.ReferredEmail,
			"created_at":     referral.CreatedAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if err = mapError(err); err == ErrAlreadyExists {
			return err
		}
		return fmt.Errorf("failed to insert referral: %w", err)
	}

	return nil
}

// ListReferralCounts returns every entry joined with the number of referrals
// it produced, ordered by count descending then id ascending.
func (r *Repository) ListReferralCounts(ctx context.Context) ([]*model.ReferralCount, error) {
	query, args, err := r.sb.
		Select(
			"e.id",
			"e.email",
			"e.name",
			"e.created_at",
			"COUNT(r.referred_email) AS referral_count",
		).
		From("waitlist_entries e").
		LeftJoin("referrals r ON r.referrer_email = e.email").
		GroupBy("e.id", "e.email", "e.name", "e.created_at").
		OrderBy("referral_count DESC", "e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard query: %w", err)
	}

	var rows []referralCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get referral counts: %w", err)
	}

	counts := make([]*model.ReferralCount, len(rows))
	for i, row := range rows {
		counts[i] = &model.ReferralCount{
			ID:            row.ID,
			Email:         row.Email,
			Name:          row.Name,
			ReferralCount: row.ReferralCount,
			CreatedAt:     row.CreatedAt.Time,
		}
	}

	return counts, nil
}
