package moderation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// fakeClock fires AfterFunc callbacks synchronously from Advance
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// Advance moves time forward and runs every timer that became due, in order
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// armed returns the number of timers neither fired nor stopped
func (c *fakeClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type call struct {
	Op      string
	GuildID string
	UserID  string
	RoleID  string
	Arg     string
}

type sent struct {
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
	Transient bool
}

type fakePlatform struct {
	mu        sync.Mutex
	ranks     map[string]int
	roleRanks map[string]int
	calls     []call
	messages  []sent
	dms       []string
	nextRole  int
	errs      map[string]error // op or op:user
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		ranks:     make(map[string]int),
		roleRanks: make(map[string]int),
		errs:      make(map[string]error),
	}
}

func (p *fakePlatform) fail(op, userID string) error {
	if err, ok := p.errs[op+":"+userID]; ok {
		return err
	}
	return p.errs[op]
}

func (p *fakePlatform) record(c call) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(c.Op, c.UserID); err != nil {
		return err
	}
	p.calls = append(p.calls, c)
	return nil
}

func (p *fakePlatform) MemberRank(_ context.Context, _, userID string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.ranks[userID]
	if !ok {
		return 0, fmt.Errorf("unknown member %s", userID)
	}
	return r, nil
}

func (p *fakePlatform) RoleRank(_ context.Context, _, roleID string) (int, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.roleRanks[roleID]
	return r, ok, nil
}

func (p *fakePlatform) RoleExists(_, roleID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.roleRanks[roleID]
	return ok
}

func (p *fakePlatform) CreateRole(_ context.Context, guildID, name string, _ int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("CreateRole", ""); err != nil {
		return "", err
	}
	p.nextRole++
	id := fmt.Sprintf("role-%d", p.nextRole)
	p.roleRanks[id] = 0
	p.calls = append(p.calls, call{Op: "CreateRole", GuildID: guildID, RoleID: id, Arg: name})
	return id, nil
}

func (p *fakePlatform) RestrictRole(_ context.Context, guildID, roleID string) error {
	return p.record(call{Op: "RestrictRole", GuildID: guildID, RoleID: roleID})
}

func (p *fakePlatform) AddRole(_ context.Context, guildID, userID, roleID, reason string) error {
	return p.record(call{Op: "AddRole", GuildID: guildID, UserID: userID, RoleID: roleID, Arg: reason})
}

func (p *fakePlatform) RemoveRole(_ context.Context, guildID, userID, roleID, reason string) error {
	return p.record(call{Op: "RemoveRole", GuildID: guildID, UserID: userID, RoleID: roleID, Arg: reason})
}

func (p *fakePlatform) Kick(_ context.Context, guildID, userID, reason string) error {
	return p.record(call{Op: "Kick", GuildID: guildID, UserID: userID, Arg: reason})
}

func (p *fakePlatform) Ban(_ context.Context, guildID, userID, reason string, deleteDays int) error {
	return p.record(call{Op: "Ban", GuildID: guildID, UserID: userID, Arg: fmt.Sprintf("%s|%d", reason, deleteDays)})
}

func (p *fakePlatform) Unban(_ context.Context, guildID, userID, reason string) error {
	return p.record(call{Op: "Unban", GuildID: guildID, UserID: userID, Arg: reason})
}

func (p *fakePlatform) DirectMessage(_ context.Context, userID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("DirectMessage", userID); err != nil {
		return err
	}
	p.dms = append(p.dms, userID+"|"+content)
	return nil
}

func (p *fakePlatform) Send(_ context.Context, channelID, content string, embed *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, sent{ChannelID: channelID, Content: content, Embed: embed})
	return nil
}

func (p *fakePlatform) SendTransient(_ context.Context, channelID, content string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, sent{ChannelID: channelID, Content: content, Transient: true})
	return nil
}

func (p *fakePlatform) callsOf(op string) []call {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []call
	for _, c := range p.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (p *fakePlatform) effects() []call {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []call
	for _, c := range p.calls {
		switch c.Op {
		case "AddRole", "RemoveRole", "Kick", "Ban", "Unban":
			out = append(out, c)
		}
	}
	return out
}

func (p *fakePlatform) transients() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.messages {
		if m.Transient {
			out = append(out, m.Content)
		}
	}
	return out
}

func (p *fakePlatform) logs() []sent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []sent
	for _, m := range p.messages {
		if !m.Transient {
			out = append(out, m)
		}
	}
	return out
}

var errStorage = errors.New("storage unavailable")

type fakeStore struct {
	mu        sync.Mutex
	records   map[string]*models.Sanction
	createErr error
	getCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.Sanction)}
}

func clone(s *models.Sanction) *models.Sanction {
	cp := *s
	if s.ExpiresAt != nil {
		t := *s.ExpiresAt
		cp.ExpiresAt = &t
	}
	if s.ReversedAt != nil {
		t := *s.ReversedAt
		cp.ReversedAt = &t
	}
	return &cp
}

func (s *fakeStore) put(rec *models.Sanction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = clone(rec)
}

func (s *fakeStore) Create(_ context.Context, rec *models.Sanction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.records[rec.ID] = clone(rec)
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*models.Sanction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return clone(rec), nil
}

func (s *fakeStore) MarkReversed(_ context.Context, id, by string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok || rec.Reversed {
		return false, nil
	}
	rec.Reversed = true
	rec.ReversedAt = &at
	rec.ReversedBy = by
	return true, nil
}

func (s *fakeStore) Pending(context.Context) ([]*models.Sanction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Sanction
	for _, rec := range s.records {
		if rec.Pending() {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

func (s *fakeStore) ActiveFor(_ context.Context, guildID, targetID string, kind models.Kind, now time.Time) (*models.Sanction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.GuildID == guildID && rec.TargetID == targetID && rec.Kind == kind && !rec.Reversed &&
			(rec.ExpiresAt == nil || rec.ExpiresAt.After(now)) {
			return clone(rec), nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListForMember(_ context.Context, guildID, targetID string, kind models.Kind) ([]*models.Sanction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Sanction
	for _, rec := range s.records {
		if rec.GuildID == guildID && rec.TargetID == targetID && (kind == "" || rec.Kind == kind) {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.Before(out[j].AppliedAt) })
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, guildID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok || rec.GuildID != guildID {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *fakeStore) all() []*models.Sanction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Sanction, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, clone(rec))
	}
	return out
}

type fakeSettings struct {
	mu       sync.Mutex
	values   map[models.SettingName]string
	channels map[string]*discordgo.Channel
	platform *fakePlatform
	sets     int
}

func newFakeSettings(p *fakePlatform) *fakeSettings {
	return &fakeSettings{
		values:   make(map[models.SettingName]string),
		channels: make(map[string]*discordgo.Channel),
		platform: p,
	}
}

func (s *fakeSettings) Set(_ context.Context, _ string, name models.SettingName, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.values[name] = value
	return nil
}

func (s *fakeSettings) ResolveRole(_ context.Context, guildID string, name models.SettingName) (string, bool, error) {
	s.mu.Lock()
	v, ok := s.values[name]
	s.mu.Unlock()
	if !ok || v == "" || !s.platform.RoleExists(guildID, v) {
		return "", false, nil
	}
	return v, true, nil
}

func (s *fakeSettings) ResolveChannel(_ context.Context, _ string, name models.SettingName) (*discordgo.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[s.values[name]], nil
}

type recordingObserver struct {
	mu       sync.Mutex
	applied  []string
	reversed []string
}

func (r *recordingObserver) SanctionApplied(s *models.Sanction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, s.ID)
}

func (r *recordingObserver) SanctionReversed(s *models.Sanction, automatic bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reversed = append(r.reversed, fmt.Sprintf("%s:%v", s.ID, automatic))
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("s%d", n)
	}
}
