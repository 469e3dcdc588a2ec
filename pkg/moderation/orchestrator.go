package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/google/uuid"
)

// TransientTTL is how long refusal and warning messages stay in the invoking channel
const TransientTTL = 10 * time.Second

// State is a step of the per-target moderation flow
type State string

const (
	StateValidating State = "validating"
	StateNotifying  State = "notifying"
	StateApplying   State = "applying"
	StateRecording  State = "recording"
	StateScheduling State = "scheduling"
	StateReporting  State = "reporting"
	StateDone       State = "done"
)

// Request is one moderation command against one or more members
type Request struct {
	Kind        models.Kind
	GuildID     string
	GuildName   string
	ChannelID   string // where refusals and warnings are posted
	ModeratorID string
	Targets     []string
	Reason      string
	// Duration in whole minutes. Zero is permanent.
	Duration      int
	BanDeleteDays int
}

// Outcome is the result of the flow for one target. State is the last state
// reached: StateDone on success, otherwise the state that failed.
type Outcome struct {
	TargetID  string
	State     State
	Sanction  *models.Sanction
	Scheduled bool
	Notified  bool
	Err       error
}

// RevokeRequest is a manual unmute or unban
type RevokeRequest struct {
	Kind        models.Kind
	GuildID     string
	ChannelID   string
	ModeratorID string
	TargetID    string
	Reason      string
}

// RevokeResult describes what Revoke did
type RevokeResult struct {
	// Sanction is the record that was reversed, nil when no record was active.
	Sanction *models.Sanction
	Reversed bool
}

// Scheduler arms and forces sanction reversals
type Scheduler interface {
	Schedule(rec *models.Sanction) bool
	ReverseNow(ctx context.Context, id, by string) (bool, error)
}

// GuildRecorder records that a guild was seen
type GuildRecorder interface {
	Touch(ctx context.Context, guildID, name string) error
}

// Orchestrator runs moderation requests
type Orchestrator struct {
	platform  Platform
	store     Store
	settings  Settings
	scheduler Scheduler
	policy    *Policy
	clock     Clock
	observer  Observer
	guilds    GuildRecorder
	newID     func() string

	roleMu sync.Mutex
}

// OrchestratorOptions holds the optional collaborators of an Orchestrator
type OrchestratorOptions struct {
	Clock    Clock
	Observer Observer
	Guilds   GuildRecorder
	NewID    func() string
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(platform Platform, store Store, settings Settings, scheduler Scheduler, policy *Policy, opts OrchestratorOptions) *Orchestrator {
	o := &Orchestrator{
		platform:  platform,
		store:     store,
		settings:  settings,
		scheduler: scheduler,
		policy:    policy,
		clock:     opts.Clock,
		observer:  opts.Observer,
		guilds:    opts.Guilds,
		newID:     opts.NewID,
	}
	if o.clock == nil {
		o.clock = SystemClock{}
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.policy == nil {
		o.policy = NewPolicy(nil)
	}
	return o
}

// Policy returns the authorization policy in use
func (o *Orchestrator) Policy() *Policy {
	return o.policy
}

// Execute runs the request against every target concurrently. The returned
// error is non-nil when the request failed as a whole: a pre-check refused it
// or a sanction could not be stored. Per-target failures are in the outcomes.
func (o *Orchestrator) Execute(ctx context.Context, req Request) ([]Outcome, error) {
	action, ok := actions[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	if len(req.Targets) == 0 {
		return nil, ErrNoTargets
	}
	if req.Duration < 0 || int64(req.Duration) > MaxMinutes {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, req.Duration)
	}

	o.touchGuild(ctx, req.GuildID, req.GuildName)

	actorRank, err := o.authorize(ctx, req.GuildID, req.ModeratorID, req.ChannelID)
	if err != nil {
		return nil, err
	}

	var roleID string
	switch req.Kind {
	case models.KindWarn:
		roleID, err = o.ensureRole(ctx, req.GuildID, models.SettingWarningRole, "Warning", 0x546E7A, false)
	case models.KindMute:
		roleID, err = o.ensureRole(ctx, req.GuildID, models.SettingMutedRole, "Muted", 0x607D8B, true)
	}
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg         sync.WaitGroup
		storageMu  sync.Mutex
		storageErr error
	)
	outcomes := make([]Outcome, len(req.Targets))
	for i, target := range req.Targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			defer apperrors.RecoverMiddleware()()

			out := o.runTarget(runCtx, ctx, req, action, actorRank, roleID, target)
			outcomes[i] = out

			if out.State == StateRecording && out.Err != nil {
				storageMu.Lock()
				if storageErr == nil {
					storageErr = out.Err
				}
				storageMu.Unlock()
				cancel()
			}
		}(i, target)
	}
	wg.Wait()

	if storageErr != nil {
		return outcomes, fmt.Errorf("record sanction: %w", storageErr)
	}
	return outcomes, nil
}

// runTarget is the per-target state machine. runCtx is cancelled when another
// target hits a storage failure; recording uses the uncancelled parent so an
// effect already applied is still persisted.
func (o *Orchestrator) runTarget(runCtx, parent context.Context, req Request, action Action, actorRank int, roleID, target string) Outcome {
	out := Outcome{TargetID: target, State: StateValidating}
	fail := func(err error, transient string) Outcome {
		out.Err = err
		if transient != "" {
			o.transient(parent, req.ChannelID, transient)
		}
		return out
	}

	// Validating
	targetRank, err := o.platform.MemberRank(runCtx, req.GuildID, target)
	if err != nil {
		return fail(fmt.Errorf("resolve member %s: %w", target, err), fmt.Sprintf("No se encontró al usuario %s.", mention(target)))
	}
	if !o.policy.CanModerate(req.ModeratorID, actorRank, targetRank) {
		return fail(ErrNotAuthorized, fmt.Sprintf("No puedes moderar a %s.", mention(target)))
	}

	rec := &models.Sanction{
		ID:          o.newID(),
		Kind:        req.Kind,
		GuildID:     req.GuildID,
		TargetID:    target,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		RoleID:      roleID,
	}
	minutes := 0
	if req.Duration > 0 && action.Reversible() {
		minutes = req.Duration
		exp := o.clock.Now().Add(time.Duration(minutes) * time.Minute)
		rec.ExpiresAt = &exp
	}

	// Notifying
	out.State = StateNotifying
	if err := runCtx.Err(); err != nil {
		return fail(err, "")
	}
	if err := o.platform.DirectMessage(runCtx, target, directMessage(action, req.GuildName, rec, minutes)); err != nil {
		logger.Debug(fmt.Sprintf("DM a %s fallido: %v", target, err), "Moderation")
		o.transient(parent, req.ChannelID, fmt.Sprintf("El usuario %s tiene bloqueados los mensajes directos", mention(target)))
	} else {
		out.Notified = true
	}

	// Applying
	out.State = StateApplying
	if err := runCtx.Err(); err != nil {
		return fail(err, "")
	}
	if err := action.Apply(runCtx, o.platform, rec, req.BanDeleteDays); err != nil {
		return fail(fmt.Errorf("apply %s: %w", req.Kind, err), fmt.Sprintf("No se pudo aplicar la sanción a %s: %v", mention(target), err))
	}
	rec.AppliedAt = o.clock.Now()
	if minutes > 0 {
		exp := rec.AppliedAt.Add(time.Duration(minutes) * time.Minute)
		rec.ExpiresAt = &exp
	}

	// Recording
	out.State = StateRecording
	if err := o.store.Create(context.WithoutCancel(parent), rec); err != nil {
		logger.Error(fmt.Sprintf("No se pudo guardar la sanción %s: %v", rec.ID, err), "Moderation")
		return fail(err, "")
	}
	out.Sanction = rec

	// Scheduling
	out.State = StateScheduling
	if rec.Pending() && o.scheduler != nil {
		out.Scheduled = o.scheduler.Schedule(rec)
	}
	o.observer.SanctionApplied(rec)

	// Reporting
	out.State = StateReporting
	o.report(parent, req, action, rec, minutes)

	out.State = StateDone
	logger.Info(fmt.Sprintf("%s aplicado a %s en %s por %s", req.Kind, target, req.GuildID, req.ModeratorID), "Moderation")
	return out
}

// authorize checks the minimum moderator role and returns the actor's rank
func (o *Orchestrator) authorize(ctx context.Context, guildID, actorID, channelID string) (int, error) {
	actorRank, err := o.platform.MemberRank(ctx, guildID, actorID)
	if err != nil {
		if !o.policy.IsOperator(actorID) {
			return 0, fmt.Errorf("resolve moderator: %w", err)
		}
		actorRank = 0
	}
	if o.policy.IsOperator(actorID) {
		return actorRank, nil
	}

	roleID, ok, err := o.settings.ResolveRole(ctx, guildID, models.SettingMinModRole)
	if err != nil {
		return 0, err
	}
	if !ok {
		o.transient(ctx, channelID, minModMissingMsg)
		return 0, ErrMinModRoleMissing
	}

	minRank, ok, err := o.platform.RoleRank(ctx, guildID, roleID)
	if err != nil {
		return 0, fmt.Errorf("resolve min mod role: %w", err)
	}
	if !ok {
		o.transient(ctx, channelID, minModMissingMsg)
		return 0, ErrMinModRoleMissing
	}
	if !o.policy.MeetsMinimum(actorID, actorRank, minRank) {
		return 0, ErrBelowMinModRole
	}
	return actorRank, nil
}

// ensureRole returns the configured role for setting, creating and storing it
// on first use. Restricted roles are denied sending and speaking everywhere.
func (o *Orchestrator) ensureRole(ctx context.Context, guildID string, setting models.SettingName, name string, color int, restrict bool) (string, error) {
	if id, ok, err := o.settings.ResolveRole(ctx, guildID, setting); err != nil || ok {
		return id, err
	}

	o.roleMu.Lock()
	defer o.roleMu.Unlock()

	if id, ok, err := o.settings.ResolveRole(ctx, guildID, setting); err != nil || ok {
		return id, err
	}

	id, err := o.platform.CreateRole(ctx, guildID, name, color)
	if err != nil {
		return "", fmt.Errorf("create %s role: %w", name, err)
	}
	logger.Info(fmt.Sprintf("Rol %s creado en %s", name, guildID), "Moderation")

	if restrict {
		if err := o.platform.RestrictRole(ctx, guildID, id); err != nil {
			logger.Warn(fmt.Sprintf("No se pudieron restringir los permisos del rol %s en %s: %v", name, guildID, err), "Moderation")
		}
	}

	if err := o.settings.Set(ctx, guildID, setting, id); err != nil {
		return "", err
	}
	return id, nil
}

func (o *Orchestrator) report(ctx context.Context, req Request, action Action, rec *models.Sanction, minutes int) {
	logs, err := o.settings.ResolveChannel(ctx, req.GuildID, models.SettingModLogsChannel)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer el canal de logs de %s: %v", req.GuildID, err), "Moderation")
	}
	if logs == nil {
		o.transient(ctx, req.ChannelID, fmt.Sprintf(noLogsChannelMsg, action.Title))
		return
	}

	content := mention(rec.TargetID)
	if rec.Kind == models.KindWarn && rec.RoleID != "" {
		content += " " + roleMention(rec.RoleID)
	}
	if rules, _ := o.settings.ResolveChannel(ctx, req.GuildID, models.SettingRulesChannel); rules != nil {
		content += " lee las reglas: " + channelMention(rules.ID)
	}

	if err := o.platform.Send(ctx, logs.ID, content, sanctionEmbed(action, rec, minutes)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el log de moderación a %s: %v", logs.ID, err), "Moderation")
	}
}

func (o *Orchestrator) transient(ctx context.Context, channelID, content string) {
	if channelID == "" {
		return
	}
	if err := o.platform.SendTransient(ctx, channelID, content, TransientTTL); err != nil {
		logger.Debug(fmt.Sprintf("Mensaje temporal a %s fallido: %v", channelID, err), "Moderation")
	}
}

func (o *Orchestrator) touchGuild(ctx context.Context, guildID, name string) {
	if o.guilds == nil {
		return
	}
	if err := o.guilds.Touch(ctx, guildID, name); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo registrar el servidor %s: %v", guildID, err), "Moderation")
	}
}

// Revoke manually lifts a mute or ban. The active record, if any, is reversed
// through the scheduler so its timer never fires; otherwise the platform
// effect is undone directly.
func (o *Orchestrator) Revoke(ctx context.Context, req RevokeRequest) (*RevokeResult, error) {
	if !req.Kind.SupportsReversal() {
		return nil, ErrNotReversible
	}

	actorRank, err := o.authorize(ctx, req.GuildID, req.ModeratorID, req.ChannelID)
	if err != nil {
		return nil, err
	}

	if req.Kind == models.KindMute {
		targetRank, err := o.platform.MemberRank(ctx, req.GuildID, req.TargetID)
		if err != nil {
			return nil, fmt.Errorf("resolve member %s: %w", req.TargetID, err)
		}
		if !o.policy.CanModerate(req.ModeratorID, actorRank, targetRank) {
			return nil, ErrNotAuthorized
		}
	}

	res := &RevokeResult{}
	active, err := o.store.ActiveFor(ctx, req.GuildID, req.TargetID, req.Kind, o.clock.Now())
	if err != nil {
		return nil, err
	}

	if active != nil && o.scheduler != nil {
		res.Sanction = active
		res.Reversed, err = o.scheduler.ReverseNow(ctx, active.ID, req.ModeratorID)
		if err != nil {
			return nil, err
		}
	} else {
		if err := o.reverseDirect(ctx, req); err != nil {
			return nil, err
		}
		res.Reversed = true
	}

	o.reportRevoke(ctx, req)
	return res, nil
}

func (o *Orchestrator) reverseDirect(ctx context.Context, req RevokeRequest) error {
	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("Revertida manualmente por %s", req.ModeratorID)
	}

	switch req.Kind {
	case models.KindMute:
		roleID, ok, err := o.settings.ResolveRole(ctx, req.GuildID, models.SettingMutedRole)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoPendingSanction
		}
		if err := o.platform.RemoveRole(ctx, req.GuildID, req.TargetID, roleID, reason); err != nil {
			return fmt.Errorf("remove muted role: %w", err)
		}
	case models.KindBan:
		if err := o.platform.Unban(ctx, req.GuildID, req.TargetID, reason); err != nil {
			return fmt.Errorf("unban: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) reportRevoke(ctx context.Context, req RevokeRequest) {
	logs, _ := o.settings.ResolveChannel(ctx, req.GuildID, models.SettingModLogsChannel)
	if logs == nil {
		return
	}
	if err := o.platform.Send(ctx, logs.ID, mention(req.TargetID), revokeEmbed(req.Kind, req.TargetID, req.ModeratorID, req.Reason)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el log de moderación a %s: %v", logs.ID, err), "Moderation")
	}
}

// Warns lists a member's warnings, oldest first
func (o *Orchestrator) Warns(ctx context.Context, guildID, targetID string) ([]*models.Sanction, error) {
	return o.store.ListForMember(ctx, guildID, targetID, models.KindWarn)
}

// RemoveWarn deletes a warning record. When the member has no warnings left
// the warning role is taken away.
func (o *Orchestrator) RemoveWarn(ctx context.Context, guildID, actorID, channelID, sanctionID string) (*models.Sanction, error) {
	if _, err := o.authorize(ctx, guildID, actorID, channelID); err != nil {
		return nil, err
	}

	rec, err := o.store.Get(ctx, sanctionID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.GuildID != guildID || rec.Kind != models.KindWarn {
		return nil, ErrSanctionNotFound
	}

	deleted, err := o.store.Delete(ctx, guildID, sanctionID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrSanctionNotFound
	}

	remaining, err := o.store.ListForMember(ctx, guildID, rec.TargetID, models.KindWarn)
	if err != nil {
		return rec, err
	}
	if len(remaining) == 0 && rec.RoleID != "" {
		if err := o.platform.RemoveRole(ctx, guildID, rec.TargetID, rec.RoleID, "Sin advertencias"); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo quitar el rol de advertencia a %s: %v", rec.TargetID, err), "Moderation")
		}
	}
	return rec, nil
}

// ReapplyMute gives the muted role back to a member who rejoined while an
// unexpired mute is on record. It reports whether the role was applied.
func (o *Orchestrator) ReapplyMute(ctx context.Context, guildID, userID string) (bool, error) {
	active, err := o.store.ActiveFor(ctx, guildID, userID, models.KindMute, o.clock.Now())
	if err != nil || active == nil {
		return false, err
	}

	roleID := active.RoleID
	if id, ok, err := o.settings.ResolveRole(ctx, guildID, models.SettingMutedRole); err == nil && ok {
		roleID = id
	}
	if roleID == "" {
		return false, nil
	}

	if err := o.platform.AddRole(ctx, guildID, userID, roleID, "Evasión de silencio"); err != nil {
		return false, fmt.Errorf("reapply muted role: %w", err)
	}
	logger.Info(fmt.Sprintf("Silencio reaplicado a %s en %s", userID, guildID), "Moderation")
	return true, nil
}
