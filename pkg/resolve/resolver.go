// Package resolve links discovered audio files to voice-source records and
// fills in their transcription and speaker from the resolution index.
package resolve

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/japaniel/voiceset/pkg/gamedata"
	"github.com/japaniel/voiceset/pkg/observe"
	"github.com/japaniel/voiceset/pkg/voice"
)

// Lookup is the read-only view of the resolution index the resolver joins
// against. *index.Index implements it.
type Lookup interface {
	Dialogue(id int64) (gamedata.DialogueNode, bool)
	Text(lang voice.Language, hash int64) string
	SpeakerName(hash int64) string
	NPCNameHash(id int64) (int64, bool)
	AvatarByID(id int64) (gamedata.Avatar, bool)
	AvatarByVoiceSwitch(name string) (gamedata.Avatar, bool)
	Fetter(voiceFile, avatarID int64) (gamedata.FetterLine, bool)
	CardCharacter(name string) (gamedata.CardCharacter, bool)
	CardTalk(voiceID int64) (gamedata.CardTalk, bool)
	Tutorial(id int64) (gamedata.TutorialComment, bool)
	Reminder(id int64) (gamedata.Reminder, bool)
}

// Resolver applies per-trigger joins to assets. It holds no mutable state,
// so one Resolver may process many assets concurrently.
type Resolver struct {
	idx     Lookup
	Metrics *observe.Metrics
}

// New returns a Resolver over idx.
func New(idx Lookup) *Resolver {
	return &Resolver{idx: idx}
}

func (r *Resolver) metrics() *observe.Metrics {
	if r.Metrics != nil {
		return r.Metrics
	}
	return observe.DefaultMetrics()
}

// Resolve walks the asset's bindings in order. Assets without a language are
// left untouched. Every setter ignores empty values, so a later binding can
// refine a field but never clear it.
func (r *Resolver) Resolve(ctx context.Context, a *voice.Asset) {
	if !a.Language.IsValid() {
		return
	}
	for _, b := range a.Bindings {
		if b.Args == 0 {
			continue
		}
		switch b.Kind {
		case voice.TriggerDialog:
			r.dialog(a, b)
		case voice.TriggerFetter:
			r.fetter(a, b)
		case voice.TriggerCard:
			r.card(a, b)
		case voice.TriggerDungeonReminder:
			r.reminder(a, b)
		default:
			continue
		}
		r.metrics().RecordBinding(ctx, string(b.Kind))
	}
}

func (r *Resolver) dialog(a *voice.Asset, b voice.TriggerBinding) {
	node, ok := r.idx.Dialogue(b.Args)
	if !ok {
		return
	}
	if node.TextHash != 0 {
		a.SetTranscription(r.idx.Text(a.Language, int64(node.TextHash)))
	}
	a.SetSpeakerRoleKind(node.Role.Type)
	if node.SpeakerNameHash != 0 {
		a.SetSpeaker(r.idx.SpeakerName(int64(node.SpeakerNameHash)))
	}
	if node.Role.Type != gamedata.RoleNPC {
		return
	}
	npcID, err := strconv.ParseInt(node.Role.Identity(), 10, 64)
	if err != nil {
		return
	}
	if h, ok := r.idx.NPCNameHash(npcID); ok {
		a.SetSpeaker(r.idx.SpeakerName(h))
	}
}

// fetter needs the speaking character to build the relationship-line key, so
// an unknown speaker hint ends the join.
func (r *Resolver) fetter(a *voice.Asset, b voice.TriggerBinding) {
	av, ok := r.idx.AvatarByVoiceSwitch(b.SpeakerHint)
	if !ok {
		return
	}
	a.SetSpeaker(r.idx.SpeakerName(int64(av.NameHash)))
	if line, ok := r.idx.Fetter(b.Args, int64(av.ID)); ok {
		a.SetTranscription(r.idx.Text(a.Language, int64(line.TextHash)))
	}
}

// card prefers the card-game character table over the playable roster for
// the speaker hint; characters can appear in both with different names.
func (r *Resolver) card(a *voice.Asset, b voice.TriggerBinding) {
	if c, ok := r.idx.CardCharacter(b.SpeakerHint); ok {
		a.SetSpeaker(r.idx.SpeakerName(int64(c.NameHash)))
	} else if av, ok := r.idx.AvatarByVoiceSwitch(b.SpeakerHint); ok {
		a.SetSpeaker(r.idx.SpeakerName(int64(av.NameHash)))
	}

	if talk, ok := r.idx.CardTalk(b.Args); ok {
		a.SetTranscription(r.idx.Text(a.Language, int64(talk.TextHash)))
		if av, ok := r.idx.AvatarByID(int64(talk.CharacterID)); ok {
			a.SetSpeaker(r.idx.SpeakerName(int64(av.NameHash)))
		}
		return
	}
	if tip, ok := r.idx.Tutorial(b.Args); ok {
		a.SetTranscription(r.idx.Text(a.Language, int64(tip.TextHash)))
	}
}

func (r *Resolver) reminder(a *voice.Asset, b voice.TriggerBinding) {
	rem, ok := r.idx.Reminder(b.Args)
	if !ok {
		return
	}
	a.SetSpeaker(r.idx.SpeakerName(int64(rem.SpeakerHash)))
	a.SetTranscription(r.idx.Text(a.Language, int64(rem.ContentHash)))
}

// ResolveAll resolves assets on up to workers goroutines. Assets share no
// mutable state, so the outcome does not depend on scheduling.
func (r *Resolver) ResolveAll(ctx context.Context, assets []*voice.Asset, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, a := range assets {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			r.Resolve(gctx, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
