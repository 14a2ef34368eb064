package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/internal/event"
	"github.com/Jomkit/KitchenSync/internal/params"
	"github.com/Jomkit/KitchenSync/internal/repository/postgres"
	"github.com/Jomkit/KitchenSync/pkg/database"
	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

// Notifier signals connected clients that server state changed. The hub
// implements it; tests substitute a recorder.
type Notifier interface {
	Broadcast()
}

// ReservationResult is the outcome of a lifecycle operation, in the shape
// handlers serialize.
type ReservationResult struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReservationService implements the reservation lifecycle: create,
// update, commit, release, and overdue expiration. Every operation runs
// as a single read-committed transaction; ingredient rows are always
// locked in ascending id order, and the reservation row lock is taken
// before any ingredient lock.
type ReservationService struct {
	db       database.DBTX
	params   *params.Registry
	notifier Notifier
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// NewReservationService creates a new reservation service.
func NewReservationService(
	db database.DBTX,
	registry *params.Registry,
	notifier Notifier,
	producer *event.Producer,
	logger *slog.Logger,
) *ReservationService {
	return &ReservationService{
		db:       db,
		params:   registry,
		notifier: notifier,
		producer: producer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReservationService) notify() {
	if s.notifier != nil {
		s.notifier.Broadcast()
	}
}

// holdPlan is the ingredient requirement derived from a normalized item
// list, with the affected ingredient rows locked.
type holdPlan struct {
	required      map[int64]int
	ingredientIDs []int64
	ingredients   map[int64]*domain.Ingredient
}

// planHold loads the menu items and recipes behind the normalized lines,
// locks the affected ingredient rows in ascending id order (including
// extraLockIDs, the update path's currently-held set), and checks
// availability. excludeReservationID keeps a reservation's own holds out
// of the aggregation so an update does not conflict with itself.
func (s *ReservationService) planHold(
	ctx context.Context,
	tx pgx.Tx,
	lines []domain.OrderLine,
	now time.Time,
	excludeReservationID int64,
	extraLockIDs []int64,
) (*holdPlan, error) {
	itemIDs := make([]int64, 0, len(lines))
	qtyByItem := make(map[int64]int, len(lines))
	for _, line := range lines {
		itemIDs = append(itemIDs, line.MenuItemID)
		qtyByItem[line.MenuItemID] = line.Qty
	}

	rows, err := tx.Query(ctx, `SELECT id FROM menu_items WHERE id = ANY($1)`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	known := make(map[int64]bool, len(itemIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan menu item id: %w", err)
		}
		known[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu item ids: %w", err)
	}

	var missing []int64
	for _, id := range itemIDs {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, apperrors.Validation("Unknown menu_item_id values: " + formatIDList(missing))
	}

	rows, err = tx.Query(ctx, `
		SELECT menu_item_id, ingredient_id, qty_required
		FROM recipes
		WHERE menu_item_id = ANY($1)`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	required := make(map[int64]int)
	for rows.Next() {
		var menuItemID, ingredientID int64
		var qtyRequired int
		if err := rows.Scan(&menuItemID, &ingredientID, &qtyRequired); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		required[ingredientID] += qtyRequired * qtyByItem[menuItemID]
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe rows: %w", err)
	}

	lockSet := make(map[int64]bool, len(required)+len(extraLockIDs))
	for id := range required {
		lockSet[id] = true
	}
	for _, id := range extraLockIDs {
		lockSet[id] = true
	}
	lockIDs := make([]int64, 0, len(lockSet))
	for id := range lockSet {
		lockIDs = append(lockIDs, id)
	}
	sort.Slice(lockIDs, func(i, j int) bool { return lockIDs[i] < lockIDs[j] })

	ingredients, err := lockIngredients(ctx, tx, lockIDs)
	if err != nil {
		return nil, err
	}

	requiredIDs := make([]int64, 0, len(required))
	for id := range required {
		requiredIDs = append(requiredIDs, id)
	}
	sort.Slice(requiredIDs, func(i, j int) bool { return requiredIDs[i] < requiredIDs[j] })

	reserved, err := postgres.ActiveReserved(ctx, tx, now, requiredIDs, excludeReservationID)
	if err != nil {
		return nil, err
	}

	var shortages []domain.IngredientShortage
	for _, id := range requiredIDs {
		ing, ok := ingredients[id]
		if !ok {
			return nil, fmt.Errorf("recipe references missing ingredient %d", id)
		}
		available := ing.AvailableQty(reserved[id])
		if available < required[id] {
			shortages = append(shortages, domain.NewIngredientShortage(ing, required[id], available))
		}
	}
	if len(shortages) > 0 {
		return nil, &domain.InsufficientIngredientsError{Shortages: shortages}
	}

	return &holdPlan{
		required:      required,
		ingredientIDs: requiredIDs,
		ingredients:   ingredients,
	}, nil
}

// lockIngredients locks the given ingredient rows with SELECT FOR UPDATE.
// ids must already be sorted ascending; the ORDER BY keeps the lock
// acquisition order deterministic across transactions.
func lockIngredients(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]*domain.Ingredient, error) {
	if len(ids) == 0 {
		return map[int64]*domain.Ingredient{}, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, on_hand_qty, low_stock_threshold_qty, is_out, updated_at
		FROM ingredients
		WHERE id = ANY($1)
		ORDER BY id ASC
		FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock ingredient rows: %w", err)
	}
	defer rows.Close()

	ingredients := make(map[int64]*domain.Ingredient, len(ids))
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(
			&ing.ID,
			&ing.Name,
			&ing.OnHandQty,
			&ing.LowStockThresholdQty,
			&ing.IsOut,
			&ing.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan locked ingredient row: %w", err)
		}
		ingredients[ing.ID] = &ing
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked ingredient rows: %w", err)
	}

	return ingredients, nil
}

func formatIDList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// insertHold writes the reservation's item lines and ingredient holds.
func insertHold(ctx context.Context, tx pgx.Tx, reservationID int64, lines []domain.OrderLine, plan *holdPlan) error {
	for _, line := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO reservation_items (reservation_id, menu_item_id, qty, notes)
			VALUES ($1, $2, $3, $4)`,
			reservationID, line.MenuItemID, line.Qty, line.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert reservation item: %w", err)
		}
	}

	for _, ingredientID := range plan.ingredientIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO reservation_ingredients (reservation_id, ingredient_id, qty_reserved)
			VALUES ($1, $2, $3)`,
			reservationID, ingredientID, plan.required[ingredientID],
		)
		if err != nil {
			return fmt.Errorf("insert reservation ingredient: %w", err)
		}
	}

	return nil
}

// Create places a new hold for the normalized item list and returns the
// active reservation.
func (s *ReservationService) Create(ctx context.Context, userID int64, lines []domain.OrderLine) (*ReservationResult, error) {
	normalized, err := domain.NormalizeOrderLines(lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.params.TTL())

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin create transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	plan, err := s.planHold(ctx, tx, normalized, now, 0, nil)
	if err != nil {
		return nil, err
	}

	var reservationID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO reservations (user_id, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id`,
		userID, domain.ReservationStatusActive, expiresAt, now,
	).Scan(&reservationID)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	if err := insertHold(ctx, tx, reservationID, normalized, plan); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create transaction: %w", err)
	}

	s.notify()

	res := &domain.Reservation{ID: reservationID, UserID: userID, Status: domain.ReservationStatusActive, ExpiresAt: expiresAt}
	if err := s.producer.PublishReservationCreated(ctx, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation.created event",
			slog.Int64("reservation_id", reservationID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "reservation created",
		slog.Int64("reservation_id", reservationID),
		slog.Int64("user_id", userID),
		slog.Int("item_count", len(normalized)),
		slog.Time("expires_at", expiresAt),
	)

	return &ReservationResult{ID: reservationID, Status: domain.ReservationStatusActive, ExpiresAt: expiresAt}, nil
}

// lockReservation locks the reservation row for update.
func lockReservation(ctx context.Context, tx pgx.Tx, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, status, expires_at, created_at, updated_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE`, id).Scan(
		&res.ID,
		&res.UserID,
		&res.Status,
		&res.ExpiresAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, fmt.Errorf("lock reservation: %w", err)
	}
	return &res, nil
}

// expireInPlace flips an overdue active reservation to expired and
// commits. Callers have the row lock; after this returns the transaction
// is closed.
func (s *ReservationService) expireInPlace(ctx context.Context, tx pgx.Tx, res *domain.Reservation, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.ReservationStatusExpired, now, res.ID,
	)
	if err != nil {
		return fmt.Errorf("expire reservation: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit expire transaction: %w", err)
	}

	s.notify()

	res.Status = domain.ReservationStatusExpired
	if err := s.producer.PublishReservationExpired(ctx, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation.expired event",
			slog.Int64("reservation_id", res.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "reservation expired in place",
		slog.Int64("reservation_id", res.ID),
	)

	return nil
}

// Update re-plans an active reservation against a new item list. The
// previous items and holds are rewritten wholesale and the expiry clock
// restarts.
func (s *ReservationService) Update(ctx context.Context, id int64, lines []domain.OrderLine) (*ReservationResult, error) {
	normalized, err := domain.NormalizeOrderLines(lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.params.TTL())

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin update transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := lockReservation(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if res.Status != domain.ReservationStatusActive {
		return nil, apperrors.Conflict(fmt.Sprintf("Reservation is %s", res.Status))
	}
	if res.IsOverdue(now) {
		if err := s.expireInPlace(ctx, tx, res, now); err != nil {
			return nil, err
		}
		return nil, apperrors.Conflict("Reservation is expired")
	}

	// Current holds participate in the lock set so shrinking an ingredient
	// still serializes against concurrent reservations of it.
	heldRows, err := tx.Query(ctx, `
		SELECT ingredient_id FROM reservation_ingredients WHERE reservation_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load held ingredient ids: %w", err)
	}
	var heldIDs []int64
	for heldRows.Next() {
		var ingredientID int64
		if err := heldRows.Scan(&ingredientID); err != nil {
			heldRows.Close()
			return nil, fmt.Errorf("scan held ingredient id: %w", err)
		}
		heldIDs = append(heldIDs, ingredientID)
	}
	heldRows.Close()
	if err := heldRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate held ingredient ids: %w", err)
	}

	plan, err := s.planHold(ctx, tx, normalized, now, id, heldIDs)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reservation_items WHERE reservation_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete reservation items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM reservation_ingredients WHERE reservation_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete reservation ingredients: %w", err)
	}

	if err := insertHold(ctx, tx, id, normalized, plan); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE reservations SET expires_at = $1, updated_at = $2 WHERE id = $3`,
		expiresAt, now, id,
	); err != nil {
		return nil, fmt.Errorf("refresh reservation expiry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update transaction: %w", err)
	}

	s.notify()

	s.logger.InfoContext(ctx, "reservation updated",
		slog.Int64("reservation_id", id),
		slog.Int("item_count", len(normalized)),
		slog.Time("expires_at", expiresAt),
	)

	return &ReservationResult{ID: id, Status: domain.ReservationStatusActive, ExpiresAt: expiresAt}, nil
}

// Commit converts an active reservation's holds into on-hand deductions.
// Committing an already-committed reservation succeeds idempotently.
func (s *ReservationService) Commit(ctx context.Context, id int64) (*ReservationResult, error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin commit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := lockReservation(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case domain.ReservationStatusCommitted:
		return &ReservationResult{ID: res.ID, Status: res.Status, ExpiresAt: res.ExpiresAt}, nil
	case domain.ReservationStatusReleased, domain.ReservationStatusExpired:
		return nil, apperrors.Conflict(fmt.Sprintf("Reservation is %s", res.Status))
	}

	if res.IsOverdue(now) {
		if err := s.expireInPlace(ctx, tx, res, now); err != nil {
			return nil, err
		}
		return nil, apperrors.Conflict("Reservation is expired")
	}

	holdRows, err := tx.Query(ctx, `
		SELECT ingredient_id, qty_reserved
		FROM reservation_ingredients
		WHERE reservation_id = $1
		ORDER BY ingredient_id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation holds: %w", err)
	}
	heldQty := make(map[int64]int)
	var heldIDs []int64
	for holdRows.Next() {
		var ingredientID int64
		var qty int
		if err := holdRows.Scan(&ingredientID, &qty); err != nil {
			holdRows.Close()
			return nil, fmt.Errorf("scan reservation hold row: %w", err)
		}
		heldQty[ingredientID] = qty
		heldIDs = append(heldIDs, ingredientID)
	}
	holdRows.Close()
	if err := holdRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation hold rows: %w", err)
	}

	ingredients, err := lockIngredients(ctx, tx, heldIDs)
	if err != nil {
		return nil, err
	}

	// The decrement must never take stock negative. A shortfall here means
	// a prior transaction violated the hold accounting, so fail loudly.
	for _, ingredientID := range heldIDs {
		ing, ok := ingredients[ingredientID]
		if !ok {
			return nil, apperrors.Internal(fmt.Errorf("held ingredient %d missing at commit", ingredientID))
		}
		next := ing.OnHandQty - heldQty[ingredientID]
		if next < 0 {
			return nil, apperrors.Internal(fmt.Errorf(
				"committing reservation %d would take ingredient %d to %d", id, ingredientID, next))
		}
		if _, err := tx.Exec(ctx, `
			UPDATE ingredients SET on_hand_qty = $1, updated_at = $2 WHERE id = $3`,
			next, now, ingredientID,
		); err != nil {
			return nil, fmt.Errorf("decrement ingredient stock: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.ReservationStatusCommitted, now, id,
	); err != nil {
		return nil, fmt.Errorf("mark reservation committed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit commit transaction: %w", err)
	}

	s.notify()

	res.Status = domain.ReservationStatusCommitted
	if err := s.producer.PublishReservationCommitted(ctx, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation.committed event",
			slog.Int64("reservation_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "reservation committed",
		slog.Int64("reservation_id", id),
		slog.Int("ingredient_count", len(heldIDs)),
	)

	return &ReservationResult{ID: id, Status: domain.ReservationStatusCommitted, ExpiresAt: res.ExpiresAt}, nil
}

// Release voluntarily ends an active reservation without touching stock.
// Releasing an already-released or already-expired reservation succeeds
// idempotently; an overdue active reservation expires instead.
func (s *ReservationService) Release(ctx context.Context, id int64) (*ReservationResult, error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin release transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := lockReservation(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case domain.ReservationStatusCommitted:
		return nil, apperrors.Conflict("Reservation is committed")
	case domain.ReservationStatusReleased, domain.ReservationStatusExpired:
		return &ReservationResult{ID: res.ID, Status: res.Status, ExpiresAt: res.ExpiresAt}, nil
	}

	// Expired-by-clock wins over the requested release.
	next := domain.ReservationStatusReleased
	if res.IsOverdue(now) {
		next = domain.ReservationStatusExpired
	}

	if _, err := tx.Exec(ctx, `
		UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		next, now, id,
	); err != nil {
		return nil, fmt.Errorf("mark reservation %s: %w", next, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit release transaction: %w", err)
	}

	s.notify()

	res.Status = next
	publish := s.producer.PublishReservationReleased
	if next == domain.ReservationStatusExpired {
		publish = s.producer.PublishReservationExpired
	}
	if err := publish(ctx, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation lifecycle event",
			slog.Int64("reservation_id", id),
			slog.String("status", next),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "reservation released",
		slog.Int64("reservation_id", id),
		slog.String("status", next),
	)

	return &ReservationResult{ID: id, Status: next, ExpiresAt: res.ExpiresAt}, nil
}

// ExpireOverdue flips every overdue active reservation to expired and
// returns how many were flipped. The sweeper and the internal expire
// endpoint both call it.
func (s *ReservationService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return 0, fmt.Errorf("begin expire transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT id, user_id, expires_at
		FROM reservations
		WHERE status = $1 AND expires_at < $2
		FOR UPDATE`, domain.ReservationStatusActive, now)
	if err != nil {
		return 0, fmt.Errorf("lock overdue reservations: %w", err)
	}
	var overdue []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.ExpiresAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan overdue reservation: %w", err)
		}
		overdue = append(overdue, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate overdue reservations: %w", err)
	}

	if len(overdue) == 0 {
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("commit empty expire transaction: %w", err)
		}
		return 0, nil
	}

	ids := make([]int64, len(overdue))
	for i := range overdue {
		ids[i] = overdue[i].ID
	}

	if _, err := tx.Exec(ctx, `
		UPDATE reservations SET status = $1, updated_at = $2 WHERE id = ANY($3)`,
		domain.ReservationStatusExpired, now, ids,
	); err != nil {
		return 0, fmt.Errorf("expire overdue reservations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit expire transaction: %w", err)
	}

	s.notify()

	for i := range overdue {
		overdue[i].Status = domain.ReservationStatusExpired
		if err := s.producer.PublishReservationExpired(ctx, &overdue[i]); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish reservation.expired event",
				slog.Int64("reservation_id", overdue[i].ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "expired overdue reservations",
		slog.Int("expired_count", len(overdue)),
	)

	return len(overdue), nil
}
