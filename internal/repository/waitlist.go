package repository

import (
	"context"
	"fmt"
	"strings"

	"neftit_waitlist/internal/model"

	"github.com/Masterminds/squirrel"
)

type waitlistEntry struct {
	ID              int64     `db:"id"`
	Email           string    `db:"email"`
	Name            *string   `db:"name"`
	PasswordHash    *string   `db:"password_hash"`
	WalletAddress   *string   `db:"wallet_address"`
	TwitterUsername *string   `db:"twitter_username"`
	TwitterFollowed bool      `db:"twitter_followed"`
	DiscordUsername *string   `db:"discord_username"`
	DiscordJoined   bool      `db:"discord_joined"`
	ReferralCode    string    `db:"referral_code"`
	ReferredByCode  *string   `db:"referred_by_code"`
	CreatedAt       timestamp `db:"created_at"`
	UpdatedAt       timestamp `db:"updated_at"`
}

var entryColumns = []string{
	"id",
	"email",
	"name",
	"password_hash",
	"wallet_address",
	"twitter_username",
	"twitter_followed",
	"discord_username",
	"discord_joined",
	"referral_code",
	"referred_by_code",
	"created_at",
	"updated_at",
}

var returningEntry = "RETURNING " + strings.Join(entryColumns, ", ")

func (e *waitlistEntry) toModel() *model.WaitlistEntry {
	return &model.WaitlistEntry{
		ID:              e.ID,
		Email:           e.Email,
		Name:            e.Name,
		PasswordHash:    e.PasswordHash,
		WalletAddress:   e.WalletAddress,
		TwitterUsername: e.TwitterUsername,
		TwitterFollowed: e.TwitterFollowed,
		DiscordUsername: e.DiscordUsername,
		DiscordJoined:   e.DiscordJoined,
		ReferralCode:    e.ReferralCode,
		ReferredByCode:  e.ReferredByCode,
		CreatedAt:       e.CreatedAt.Time,
		UpdatedAt:       e.UpdatedAt.Time,
	}
}

// CheckConnection issues a trivial bounded read against the entries table.
func (r *Repository) CheckConnection(ctx context.Context) error {
	query, args, err := r.sb.
		Select("id").
		From("waitlist_entries").
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build connection query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	return nil
}

// UserExists reports whether an entry with the email exists. A missing row is
// not an error.
func (r *Repository) UserExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

func (r *Repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"referral_code": code})
}

func (r *Repository) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	query, args, err := r.sb.
		Select("1").
		From("waitlist_entries").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found int
	err = mapError(r.db.GetContext(ctx, &found, query, args...))
	switch {
	case err == nil:
		return true, nil
	case err == ErrNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("failed to check entry: %w", err)
	}
}

func (r *Repository) CreateEntry(ctx context.Context, entry *model.WaitlistEntry) (*model.WaitlistEntry, error) {
	query, args, err := r.sb.
		Insert("waitlist_entries").
		SetMap(map[string]interface{}{
			"email":            entry.Email,
			"name":             entry.Name,
			"password_hash":    entry.PasswordHash,
			"wallet_address":   entry.WalletAddress,
			"twitter_username": entry.TwitterUsername,
			"twitter_followed": entry.TwitterFollowed,
			"discord_username": entry.DiscordUsername,
			"discord_joined":   entry.DiscordJoined,
			"referral_code":    entry.ReferralCode,
			"referred_by_code": entry.ReferredByCode,
			"created_at":       entry.CreatedAt,
			"updated_at":       entry.UpdatedAt,
		}).
		Suffix(returningEntry).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entry insert query: %w", err)
	}

	var created waitlistEntry
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		if err = mapError(err); err == ErrAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	return created.toModel(), nil
}

func (r *Repository) GetEntryByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	return r.getEntry(ctx, squirrel.Eq{"email": email})
}

func (r *Repository) GetEntryByReferralCode(ctx context.Context, code string) (*model.WaitlistEntry, error) {
	return r.getEntry(ctx, squirrel.Eq{"referral_code": code})
}

func (r *Repository) getEntry(ctx context.Context, where squirrel.Eq) (*model.WaitlistEntry, error) {
	query, args, err := r.sb.
		Select(entryColumns...).
		From("waitlist_entries").
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	var entry waitlistEntry
	err = mapError(r.db.GetContext(ctx, &entry, query, args...))
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry.toModel(), nil
}

// UpdateEntry applies the patch to the entry with the email in a single
// conditional statement. It returns ErrNotFound when no row matched and
// ErrAlreadyExists when a unique column (wallet address) collides.
func (r *Repository) UpdateEntry(ctx context.Context, email string, patch model.EntryPatch) (*model.WaitlistEntry, error) {
	fields := map[string]interface{}{
		"updated_at": patch.UpdatedAt,
	}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.WalletAddress != nil {
		fields["wallet_address"] = *patch.WalletAddress
	}
	if patch.TwitterUsername != nil {
		fields["twitter_username"] = *patch.TwitterUsername
	}
	if patch.TwitterFollowed != nil {
		fields["twitter_followed"] = *patch.TwitterFollowed
	}
	if patch.DiscordUsername != nil {
		fields["discord_username"] = *patch.DiscordUsername
	}
	if patch.DiscordJoined != nil {
		fields["discord_joined"] = *patch.DiscordJoined
	}

	query, args, err := r.sb.
		Update("waitlist_entries").
		SetMap(fields).
		Where(squirrel.Eq{"email": email}).
		Suffix(returningEntry).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entry update query: %w", err)
	}

	var updated waitlistEntry
	err = mapError(r.db.GetContext(ctx, &updated, query, args...))
	switch {
	case err == nil:
		return updated.toModel(), nil
	case err == ErrNotFound, err == ErrAlreadyExists:
		return nil, err
	default:
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
}

func (r *Repository) CountEntries(ctx context.Context) (int, error) {
	query, args, err := r.sb.
		Select("COUNT(*)").
		From("waitlist_entries").
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}

// ListEntries returns every entry ordered by id.
func (r *Repository) ListEntries(ctx context.Context) ([]*model.WaitlistEntry, error) {
	query, args, err := r.sb.
		Select(entryColumns...).
		From("waitlist_entries").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []waitlistEntry
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*model.WaitlistEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].toModel()
	}

	return entries, nil
}
