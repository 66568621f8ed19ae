// Package memory is an in-process implementation of repository.Store. It is
// used by unit tests and by the serve command when no database is configured.
// Transactions are serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type txKey struct{}

type slotKey struct{ playerID, itemID string }
type badgeKey struct{ playerID, badgeID string }

type state struct {
	levels    map[string]domain.PlayerLevelState
	daily     map[string]domain.DailyRewardState
	badges    map[badgeKey]domain.PlayerBadge
	slots     map[slotKey]domain.InventorySlot
	wallets   map[string]domain.Wallet
	titles    map[string][]string
	stats     map[string]domain.PlayerStats
	history   []domain.RewardHistoryEntry
	items     map[string]domain.Item
	catalog   map[string]domain.Badge
	dailyDefs map[int]domain.DailyReward
}

func newState() *state {
	return &state{
		levels:    make(map[string]domain.PlayerLevelState),
		daily:     make(map[string]domain.DailyRewardState),
		badges:    make(map[badgeKey]domain.PlayerBadge),
		slots:     make(map[slotKey]domain.InventorySlot),
		wallets:   make(map[string]domain.Wallet),
		titles:    make(map[string][]string),
		stats:     make(map[string]domain.PlayerStats),
		items:     make(map[string]domain.Item),
		catalog:   make(map[string]domain.Badge),
		dailyDefs: make(map[int]domain.DailyReward),
	}
}

func (s *state) clone() *state {
	c := &state{
		levels:    maps.Clone(s.levels),
		daily:     make(map[string]domain.DailyRewardState, len(s.daily)),
		badges:    maps.Clone(s.badges),
		slots:     maps.Clone(s.slots),
		wallets:   maps.Clone(s.wallets),
		titles:    make(map[string][]string, len(s.titles)),
		stats:     make(map[string]domain.PlayerStats, len(s.stats)),
		history:   slices.Clone(s.history),
		items:     maps.Clone(s.items),
		catalog:   maps.Clone(s.catalog),
		dailyDefs: maps.Clone(s.dailyDefs),
	}
	for k, v := range s.daily {
		v.MonthlyClaimLog = slices.Clone(v.MonthlyClaimLog)
		c.daily[k] = v
	}
	for k, v := range s.titles {
		c.titles[k] = slices.Clone(v)
	}
	for k, v := range s.stats {
		v.SubjectCounts = maps.Clone(v.SubjectCounts)
		c.stats[k] = v
	}
	return c
}

// Store is a goroutine-safe in-memory repository.Store for tests and local
// runs. Its transactions snapshot the whole store, so they run one at a time
// across all players; it cannot show that different players proceed in
// parallel, only that each player's updates are not lost.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // held by an open transaction and by non-transactional writes
	data *state

	faultMu sync.Mutex
	faults  map[string][]error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newState(), faults: make(map[string][]error)}
}

// FailNext makes the next call of the named method return err. Repeated calls
// queue further failures.
func (s *Store) FailNext(method string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[method] = append(s.faults[method], err)
}

func (s *Store) fault(method string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	q := s.faults[method]
	if len(q) == 0 {
		return nil
	}
	s.faults[method] = q[1:]
	return q[0]
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// WithTx runs fn in a serialized transaction, restoring the prior state if fn
// fails. A nested call joins the open transaction and, like a savepoint, only
// undoes its own writes when it fails.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return s.savepoint(ctx, fn)
	}
	if err := s.fault("WithTx"); err != nil {
		return err
	}
	return repository.WithCommitHooks(ctx, func(ctx context.Context) error {
		return s.runTx(ctx, fn)
	})
}

func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// write applies mutate under the data lock. Outside a transaction it also
// waits for any open transaction so a rollback cannot discard the write.
func (s *Store) write(ctx context.Context, method string, mutate func(d *state) error) error {
	if err := s.fault(method); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return mutate(s.data)
}

func (s *Store) read(method string, fn func(d *state) error) error {
	if err := s.fault(method); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return s.fault("Ping")
}

// ---- Level states ----

func (s *Store) GetLevelState(ctx context.Context, playerID string) (*domain.PlayerLevelState, error) {
	var out *domain.PlayerLevelState
	err := s.read("GetLevelState", func(d *state) error {
		if st, ok := d.levels[playerID]; ok {
			out = &st
		}
		return nil
	})
	return out, err
}

func (s *Store) UpsertLevelState(ctx context.Context, st *domain.PlayerLevelState) error {
	return s.write(ctx, "UpsertLevelState", func(d *state) error {
		d.levels[st.PlayerID] = *st
		return nil
	})
}

// ---- Daily rewards ----

func (s *Store) GetDailyState(ctx context.Context, playerID string) (*domain.DailyRewardState, error) {
	var out *domain.DailyRewardState
	err := s.read("GetDailyState", func(d *state) error {
		if st, ok := d.daily[playerID]; ok {
			st.MonthlyClaimLog = slices.Clone(st.MonthlyClaimLog)
			out = &st
		}
		return nil
	})
	return out, err
}

func (s *Store) UpsertDailyState(ctx context.Context, st *domain.DailyRewardState) error {
	return s.write(ctx, "UpsertDailyState", func(d *state) error {
		cp := *st
		cp.MonthlyClaimLog = slices.Clone(st.MonthlyClaimLog)
		d.daily[st.PlayerID] = cp
		return nil
	})
}

// ---- Badges ----

func (s *Store) GetPlayerBadge(ctx context.Context, playerID, badgeID string) (*domain.PlayerBadge, error) {
	var out *domain.PlayerBadge
	err := s.read("GetPlayerBadge", func(d *state) error {
		if pb, ok := d.badges[badgeKey{playerID, badgeID}]; ok {
			out = &pb
		}
		return nil
	})
	return out, err
}

func (s *Store) ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error) {
	var out []domain.PlayerBadge
	err := s.read("ListPlayerBadges", func(d *state) error {
		for k, pb := range d.badges {
			if k.playerID == playerID {
				out = append(out, pb)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeID < out[j].BadgeID })
	return out, err
}

func (s *Store) UpsertBadgeProgress(ctx context.Context, pb *domain.PlayerBadge) error {
	return s.write(ctx, "UpsertBadgeProgress", func(d *state) error {
		key := badgeKey{pb.PlayerID, pb.BadgeID}
		existing, ok := d.badges[key]
		if ok && existing.EarnedAt != nil {
			return nil
		}
		d.badges[key] = domain.PlayerBadge{PlayerID: pb.PlayerID, BadgeID: pb.BadgeID, ProgressPercent: pb.ProgressPercent}
		return nil
	})
}

func (s *Store) MarkBadgeEarned(ctx context.Context, playerID, badgeID string, at time.Time) (bool, error) {
	marked := false
	err := s.write(ctx, "MarkBadgeEarned", func(d *state) error {
		key := badgeKey{playerID, badgeID}
		if existing, ok := d.badges[key]; ok && existing.EarnedAt != nil {
			return nil
		}
		earned := at
		d.badges[key] = domain.PlayerBadge{PlayerID: playerID, BadgeID: badgeID, ProgressPercent: 100, EarnedAt: &earned}
		marked = true
		return nil
	})
	return marked, err
}

func (s *Store) IncrementBadgeEarned(ctx context.Context, badgeID, playerID string, at time.Time) error {
	return s.write(ctx, "IncrementBadgeEarned", func(d *state) error {
		b, ok := d.catalog[badgeID]
		if !ok {
			return nil
		}
		b.TotalEarnedCount++
		if b.FirstEarnedBy == nil {
			p, t := playerID, at
			b.FirstEarnedBy, b.FirstEarnedAt = &p, &t
		}
		d.catalog[badgeID] = b
		return nil
	})
}

// ---- Inventory ----

func (s *Store) GetSlot(ctx context.Context, playerID, itemID string) (*domain.InventorySlot, error) {
	var out *domain.InventorySlot
	err := s.read("GetSlot", func(d *state) error {
		if slot, ok := d.slots[slotKey{playerID, itemID}]; ok {
			out = &slot
		}
		return nil
	})
	return out, err
}

func (s *Store) ListSlots(ctx context.Context, playerID string) ([]domain.InventorySlot, error) {
	var out []domain.InventorySlot
	err := s.read("ListSlots", func(d *state) error {
		for k, slot := range d.slots {
			if k.playerID == playerID {
				out = append(out, slot)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, err
}

func (s *Store) UpsertSlot(ctx context.Context, slot *domain.InventorySlot) error {
	return s.write(ctx, "UpsertSlot", func(d *state) error {
		d.slots[slotKey{slot.PlayerID, slot.ItemID}] = *slot
		return nil
	})
}

func (s *Store) DeleteSlot(ctx context.Context, playerID, itemID string) error {
	return s.write(ctx, "DeleteSlot", func(d *state) error {
		delete(d.slots, slotKey{playerID, itemID})
		return nil
	})
}

// ---- Wallets and titles ----

func (s *Store) GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error) {
	out := &domain.Wallet{PlayerID: playerID}
	err := s.read("GetWallet", func(d *state) error {
		if w, ok := d.wallets[playerID]; ok {
			*out = w
		}
		return nil
	})
	return out, err
}

func (s *Store) Credit(ctx context.Context, playerID string, currency domain.Currency, amount int64) (*domain.Wallet, error) {
	var out domain.Wallet
	err := s.write(ctx, "Credit", func(d *state) error {
		w := d.wallets[playerID]
		w.PlayerID = playerID
		if currency == domain.CurrencyGems {
			w.Gems += amount
		} else {
			w.Gold += amount
		}
		w.UpdatedAt = time.Now()
		d.wallets[playerID] = w
		out = w
		return nil
	})
	return &out, err
}

func (s *Store) AddTitle(ctx context.Context, playerID, title string) (bool, error) {
	added := false
	err := s.write(ctx, "AddTitle", func(d *state) error {
		if slices.Contains(d.titles[playerID], title) {
			return nil
		}
		d.titles[playerID] = append(d.titles[playerID], title)
		added = true
		return nil
	})
	return added, err
}

func (s *Store) ListTitles(ctx context.Context, playerID string) ([]string, error) {
	var out []string
	err := s.read("ListTitles", func(d *state) error {
		out = slices.Clone(d.titles[playerID])
		return nil
	})
	return out, err
}

// ---- Stats ----

func (s *Store) GetStats(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	out := &domain.PlayerStats{PlayerID: playerID, SubjectCounts: map[string]int{}}
	err := s.read("GetStats", func(d *state) error {
		if st, ok := d.stats[playerID]; ok {
			*out = st
			out.SubjectCounts = maps.Clone(st.SubjectCounts)
		}
		return nil
	})
	return out, err
}

func (s *Store) RecordQuest(ctx context.Context, playerID, subject string, perfect bool) (*domain.PlayerStats, error) {
	var out domain.PlayerStats
	err := s.write(ctx, "RecordQuest", func(d *state) error {
		st, ok := d.stats[playerID]
		if !ok {
			st = domain.PlayerStats{PlayerID: playerID, SubjectCounts: map[string]int{}}
		}
		st.SubjectCounts = maps.Clone(st.SubjectCounts)
		st.QuestsCompleted++
		if perfect {
			st.PerfectScores++
		}
		if subject != "" {
			st.SubjectCounts[subject]++
		}
		st.UpdatedAt = time.Now()
		d.stats[playerID] = st
		out = st
		out.SubjectCounts = maps.Clone(st.SubjectCounts)
		return nil
	})
	return &out, err
}

// ---- Reward history ----

func (s *Store) AppendRewardHistory(ctx context.Context, entry *domain.RewardHistoryEntry) error {
	return s.write(ctx, "AppendRewardHistory", func(d *state) error {
		d.history = append(d.history, *entry)
		return nil
	})
}

func (s *Store) HasRewardFromSource(ctx context.Context, playerID string, kind domain.RewardKind, source domain.Source) (bool, error) {
	found := false
	err := s.read("HasRewardFromSource", func(d *state) error {
		for _, h := range d.history {
			if h.PlayerID == playerID && h.RewardType == kind && h.SourceType == source.Type && h.SourceID == source.ID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (s *Store) ListRewardHistory(ctx context.Context, playerID string, limit int) ([]domain.RewardHistoryEntry, error) {
	var out []domain.RewardHistoryEntry
	err := s.read("ListRewardHistory", func(d *state) error {
		for i := len(d.history) - 1; i >= 0; i-- {
			if d.history[i].PlayerID != playerID {
				continue
			}
			out = append(out, d.history[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// ---- Catalog ----

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	var out *domain.Item
	err := s.read("GetItem", func(d *state) error {
		if it, ok := d.items[itemID]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	var out []domain.Item
	err := s.read("ListItems", func(d *state) error {
		out = slices.Collect(maps.Values(d.items))
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (s *Store) GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error) {
	var out *domain.Badge
	err := s.read("GetBadge", func(d *state) error {
		if b, ok := d.catalog[badgeID]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (s *Store) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	var out []domain.Badge
	err := s.read("ListBadges", func(d *state) error {
		out = slices.Collect(maps.Values(d.catalog))
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (s *Store) GetDailyReward(ctx context.Context, day int) (*domain.DailyReward, error) {
	var out *domain.DailyReward
	err := s.read("GetDailyReward", func(d *state) error {
		if r, ok := d.dailyDefs[day]; ok {
			out = &r
		}
		return nil
	})
	return out, err
}

func (s *Store) ListDailyRewards(ctx context.Context) ([]domain.DailyReward, error) {
	var out []domain.DailyReward
	err := s.read("ListDailyRewards", func(d *state) error {
		out = slices.Collect(maps.Values(d.dailyDefs))
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, err
}

func (s *Store) UpsertItem(ctx context.Context, item *domain.Item) error {
	return s.write(ctx, "UpsertItem", func(d *state) error {
		d.items[item.ID] = *item
		return nil
	})
}

func (s *Store) UpsertBadge(ctx context.Context, badge *domain.Badge) error {
	return s.write(ctx, "UpsertBadge", func(d *state) error {
		b := *badge
		if existing, ok := d.catalog[badge.ID]; ok {
			b.TotalEarnedCount = existing.TotalEarnedCount
			b.FirstEarnedBy = existing.FirstEarnedBy
			b.FirstEarnedAt = existing.FirstEarnedAt
		}
		d.catalog[badge.ID] = b
		return nil
	})
}

func (s *Store) UpsertDailyReward(ctx context.Context, reward *domain.DailyReward) error {
	return s.write(ctx, "UpsertDailyReward", func(d *state) error {
		d.dailyDefs[reward.Day] = *reward
		return nil
	})
}
