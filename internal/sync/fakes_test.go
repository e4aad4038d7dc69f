// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// fakeHost is a data-driven host.Client. A nil slice or map means the host
// cannot answer that query. skillFn, when set, overrides Skill.
type fakeHost struct {
	name        string
	accountType int
	world       int
	combatLevel int
	tick        int

	skills     []host.SkillStat
	quests     []host.QuestState
	varbits    map[int]int
	varps      map[int]int
	scripts    map[string][]int
	widgetText map[host.ComponentID]string
	equipment  []int

	skillFn func(name string) (host.SkillStat, bool)

	notified       []string
	queued         []int
	buttonGroup    int
	onClick        func()
	buttonReleased bool
}

func scriptKey(id int, args ...int) string {
	return fmt.Sprint(id, args)
}

func (h *fakeHost) PlayerName() (string, bool) { return h.name, h.name != "" }
func (h *fakeHost) AccountType() (int, bool)   { return h.accountType, h.name != "" }
func (h *fakeHost) World() (int, bool)         { return h.world, h.world != 0 }
func (h *fakeHost) CombatLevel() (int, bool)   { return h.combatLevel, h.combatLevel != 0 }
func (h *fakeHost) TickCount() int             { return h.tick }

func (h *fakeHost) Skills() ([]host.SkillStat, bool) { return h.skills, h.skills != nil }

func (h *fakeHost) Skill(name string) (host.SkillStat, bool) {
	if h.skillFn != nil {
		return h.skillFn(name)
	}
	for _, s := range h.skills {
		if s.Name == name {
			return s, true
		}
	}
	return host.SkillStat{}, false
}

func (h *fakeHost) TotalLevel() (int, bool) {
	if h.skills == nil {
		return 0, false
	}
	total := 0
	for _, s := range h.skills {
		if s.Name != "Overall" {
			total += s.RealLevel
		}
	}
	return total, true
}

func (h *fakeHost) TotalExperience() (int64, bool) {
	if h.skills == nil {
		return 0, false
	}
	var total int64
	for _, s := range h.skills {
		if s.Name != "Overall" {
			total += int64(s.Experience)
		}
	}
	return total, true
}

func (h *fakeHost) Quests() ([]host.QuestState, bool) { return h.quests, h.quests != nil }

func (h *fakeHost) Varbit(id int) (int, bool) {
	v, ok := h.varbits[id]
	return v, ok
}

func (h *fakeHost) Varp(id int) (int, bool) {
	v, ok := h.varps[id]
	return v, ok
}

func (h *fakeHost) RunScript(id int, args ...int) ([]int, bool) {
	v, ok := h.scripts[scriptKey(id, args...)]
	return v, ok
}

func (h *fakeHost) WidgetText(id host.ComponentID) (string, bool) {
	v, ok := h.widgetText[id]
	return v, ok
}

func (h *fakeHost) WidgetChildren(host.ComponentID) ([]host.Widget, bool) { return nil, false }
func (h *fakeHost) WidgetVisible(id host.ComponentID) bool                { return false }

func (h *fakeHost) EquippedItems() ([]int, bool) { return h.equipment, h.equipment != nil }

func (h *fakeHost) Notify(text string) { h.notified = append(h.notified, text) }

func (h *fakeHost) QueueScript(id int, _ ...int) { h.queued = append(h.queued, id) }

func (h *fakeHost) RegisterButton(groupID int, _ string, onClick func()) host.Subscription {
	h.buttonGroup = groupID
	h.onClick = onClick
	return host.SubscriptionFunc(func() { h.buttonReleased = true })
}

// fakePoster queues posted closures until the test runs them, standing in
// for the dispatch loop.
type fakePoster struct {
	mu    sync.Mutex
	queue []func()
}

func newFakePoster() *fakePoster {
	return &fakePoster{}
}

func (p *fakePoster) Post(fn func()) {
	p.mu.Lock()
	p.queue = append(p.queue, fn)
	p.mu.Unlock()
}

func (p *fakePoster) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// RunPending runs everything queued so far, including closures queued by
// the ones it runs. It returns how many ran.
func (p *fakePoster) RunPending() int {
	n := 0
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return n
		}
		fn := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		fn()
		n++
	}
}

// AwaitAndRun waits for a post from another goroutine, such as a send
// completion, and runs the queue.
func (p *fakePoster) AwaitAndRun(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for p.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for a posted completion")
		}
		time.Sleep(time.Millisecond)
	}
	p.RunPending()
}

// fakeReader returns canned data. A category listed in fail reports ok=false.
type fakeReader struct {
	identity  *Identity
	summary   Summary
	skills    map[string]models.SkillData
	quests    map[string]string
	diaries   map[string]models.DiaryData
	combat    *models.CombatAchievementData
	equipment map[string]int
	fail      map[string]bool
}

func newFakeReader() *fakeReader {
	level := 126
	return &fakeReader{
		identity:  &Identity{Username: "Zezima", AccountType: 0, World: 302},
		summary:   Summary{CombatLevel: &level},
		skills:    map[string]models.SkillData{"Attack": {Level: 99, XP: 13034431}},
		quests:    map[string]string{"Cook's Assistant": host.QuestFinished},
		diaries:   map[string]models.DiaryData{"Varrock": {Easy: true}},
		combat:    &models.CombatAchievementData{Easy: 33},
		equipment: map[string]int{"Weapon": 4151},
		fail:      map[string]bool{},
	}
}

func (r *fakeReader) Identity() (Identity, bool) {
	if r.identity == nil {
		return Identity{}, false
	}
	return *r.identity, true
}

func (r *fakeReader) Summary() Summary { return r.summary }

func (r *fakeReader) Skills() (map[string]models.SkillData, bool) {
	return r.skills, !r.fail[CategorySkills]
}

func (r *fakeReader) Quests() (map[string]string, bool) {
	return r.quests, !r.fail[CategoryQuests]
}

func (r *fakeReader) Diaries() (map[string]models.DiaryData, bool) {
	return r.diaries, !r.fail[CategoryDiaries]
}

func (r *fakeReader) CombatAchievements() (*models.CombatAchievementData, bool) {
	return r.combat, !r.fail[CategoryCombatAchievements]
}

func (r *fakeReader) Equipment() (map[string]int, bool) {
	return r.equipment, !r.fail[CategoryEquipment]
}

// fakeTransport records snapshots. sendFn decides the outcome; nil means
// success.
type fakeTransport struct {
	mu     sync.Mutex
	sendFn func(ctx context.Context, snap *models.Snapshot) error
	sent   []*models.Snapshot
}

func (f *fakeTransport) Send(ctx context.Context, snap *models.Snapshot) error {
	f.mu.Lock()
	f.sent = append(f.sent, snap)
	fn := f.sendFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, snap)
	}
	return nil
}

func (f *fakeTransport) Sent() []*models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Snapshot(nil), f.sent...)
}

// fakeSettings is a mutable Settings.
type fakeSettings struct {
	cfg config.SyncConfig
}

func (s *fakeSettings) Sync() config.SyncConfig { return s.cfg }

func allEnabled() *fakeSettings {
	return &fakeSettings{cfg: config.SyncConfig{
		Enabled:            true,
		IntervalMinutes:    5,
		Skills:             true,
		Quests:             true,
		Diaries:            true,
		CombatAchievements: true,
		Equipment:          true,
		CollectionLog:      true,
	}}
}

// testClock is a manually advanced clock.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
