package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/repository"
)

// memLedger is an in-memory repository.Ledger. One transaction runs at a
// time (BeginTx takes the store mutex, Commit/Rollback release it), which
// mirrors the row-lock serialization the real Postgres layer provides and
// lets concurrency tests observe lost updates if service-level locking
// ever breaks.
type memLedger struct {
	mu          sync.Mutex
	users       map[int64]*domain.User
	items       map[int64]*domain.InventoryItem
	promos      map[string]*domain.PromoCode
	redemptions map[[2]int64]bool
	nextItemID  int64
}

func newMemLedger() *memLedger {
	return &memLedger{
		users:       make(map[int64]*domain.User),
		items:       make(map[int64]*domain.InventoryItem),
		promos:      make(map[string]*domain.PromoCode),
		redemptions: make(map[[2]int64]bool),
	}
}

func (l *memLedger) addUser(u domain.User) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[u.ID] = &u
}

func (l *memLedger) addItem(i domain.InventoryItem) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextItemID++
	i.ID = l.nextItemID
	l.items[i.ID] = &i
	return i.ID
}

func (l *memLedger) addPromo(p domain.PromoCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.promos[p.Code] = &p
}

func (l *memLedger) user(id int64) domain.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.users[id]
}

func (l *memLedger) item(id int64) (domain.InventoryItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.items[id]
	if !ok {
		return domain.InventoryItem{}, false
	}
	return *it, true
}

func (l *memLedger) itemCount(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, it := range l.items {
		if it.UserID == userID {
			n++
		}
	}
	return n
}

func (l *memLedger) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (l *memLedger) GetUserByReferralCode(_ context.Context, code string) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (l *memLedger) CountReferrals(_ context.Context, userID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, u := range l.users {
		if u.ReferredByID != nil && *u.ReferredByID == userID {
			n++
		}
	}
	return n, nil
}

func (l *memLedger) ListInventory(_ context.Context, userID int64) ([]domain.InventoryItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inventoryLocked(userID), nil
}

func (l *memLedger) Leaderboard(_ context.Context, limit int) ([]domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	users := make([]domain.User, 0, len(l.users))
	for _, u := range l.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].TotalWon.GreaterThan(users[j].TotalWon)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (l *memLedger) BeginTx(_ context.Context) (repository.Tx, error) {
	l.mu.Lock()
	return &memTx{l: l}, nil
}

func (l *memLedger) inventoryLocked(userID int64) []domain.InventoryItem {
	var out []domain.InventoryItem
	for _, it := range l.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTx struct {
	l      *memLedger
	closed bool
}

func (t *memTx) Commit(context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.l.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.l.mu.Unlock()
	return nil
}

func (t *memTx) GetUserForUpdate(_ context.Context, userID int64) (*domain.User, error) {
	u, ok := t.l.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (t *memTx) CreateUser(_ context.Context, user *domain.User) error {
	cp := *user
	t.l.users[user.ID] = &cp
	return nil
}

func (t *memTx) UpdateUser(_ context.Context, user domain.User) error {
	t.l.users[user.ID] = &user
	return nil
}

func (t *memTx) GetItemForUpdate(_ context.Context, userID, itemID int64) (*domain.InventoryItem, error) {
	it, ok := t.l.items[itemID]
	if !ok || it.UserID != userID {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (t *memTx) ListInventoryForUpdate(_ context.Context, userID int64) ([]domain.InventoryItem, error) {
	return t.l.inventoryLocked(userID), nil
}

func (t *memTx) InsertItem(_ context.Context, item *domain.InventoryItem) error {
	t.l.nextItemID++
	item.ID = t.l.nextItemID
	cp := *item
	t.l.items[item.ID] = &cp
	return nil
}

func (t *memTx) DeleteItem(_ context.Context, itemID int64) error {
	delete(t.l.items, itemID)
	return nil
}

func (t *memTx) SetItemPendingWithdrawal(_ context.Context, itemID int64, pending bool) error {
	it, ok := t.l.items[itemID]
	if !ok {
		return errors.New("item not found")
	}
	it.PendingWithdrawal = pending
	return nil
}

func (t *memTx) GetPromoForUpdate(_ context.Context, code string) (*domain.PromoCode, error) {
	p, ok := t.l.promos[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) UpdatePromo(_ context.Context, promo domain.PromoCode) error {
	t.l.promos[promo.Code] = &promo
	return nil
}

func (t *memTx) HasRedemption(_ context.Context, userID, promoID int64) (bool, error) {
	return t.l.redemptions[[2]int64{userID, promoID}], nil
}

func (t *memTx) InsertRedemption(_ context.Context, userID, promoID int64) error {
	t.l.redemptions[[2]int64{userID, promoID}] = true
	return nil
}
