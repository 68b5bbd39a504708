package game

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseCountdown    Phase = "countdown"
	PhaseRound        Phase = "round"
	PhaseIntermission Phase = "intermission"
)

// Config holds the tunable timings and thresholds of a session.
type Config struct {
	MinPlayers       int
	CountdownSeconds int
	RoundDuration    time.Duration
	SessionDuration  time.Duration
	Intermission     time.Duration
	ScoreResetDelay  time.Duration
	TickInterval     time.Duration

	// CancelCountdownBelowMin aborts a running countdown when departures
	// drop the roster below MinPlayers. When false the countdown runs to
	// completion regardless.
	CancelCountdownBelowMin bool
}

func DefaultConfig() Config {
	return Config{
		MinPlayers:              2,
		CountdownSeconds:        20,
		RoundDuration:           75 * time.Second,
		SessionDuration:         3 * time.Minute,
		Intermission:            5 * time.Second,
		ScoreResetDelay:         10 * time.Second,
		TickInterval:            time.Second,
		CancelCountdownBelowMin: true,
	}
}

// Round end reasons, used to word the reveal announcement.
const (
	endReasonGuessed    = "guessed"
	endReasonTimeout    = "timeout"
	endReasonDrawerLeft = "drawerLeft"
	endReasonSessionUp  = "sessionOver"
	endReasonTooFew     = "tooFewPlayers"
)

// Session is the authoritative round/session state machine. One instance
// exists per process; every inbound event and every timer callback enters
// through a method that takes the session lock, so transitions never run
// concurrently. Outbound messages are queued under the lock and flushed
// after it is released.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	gw     Gateway
	pool   *Pool
	roster *Roster
	board  *Board

	phase         Phase
	sessionActive bool
	sessionEndsAt time.Time
	sessionSeq    int

	drawerID     string
	word         string
	roundEndsAt  time.Time
	roundSeq     int
	lastDrawerID string

	// nextDrawerHint pins the next drawer when the current one departs
	// mid-round, preserving the pre-departure rotation order.
	nextDrawerHint string

	countdownRemaining int
	countdownSeq       int

	countdownTimer    *timerHandle
	roundTimer        *timerHandle
	tickTimer         *timerHandle
	intermissionTimer *timerHandle
	sessionTimer      *timerHandle
	resetTimer        *timerHandle
}

func NewSession(cfg Config, gw Gateway, pool *Pool) *Session {
	return &Session{
		cfg:    cfg,
		gw:     gw,
		pool:   pool,
		roster: NewRoster(),
		board:  NewBoard(),
		phase:  PhaseIdle,
	}
}

// =============================================================================
// INBOUND EVENTS
// =============================================================================

// Join adds a participant and returns the display name assigned to them.
// Reaching the minimum player count while idle starts the pre-session
// countdown.
func (s *Session) Join(id, requestedName string) string {
	s.mu.Lock()
	var out outbox

	name := s.roster.Add(id, requestedName)
	s.board.Award(name, 0)
	log.Printf("[Join] %s joined as %q (%d players)", id, name, s.roster.Size())

	out.broadcast(s.userListMsg())
	out.broadcast(s.scoreUpdateMsg())
	out.systemChat(fmt.Sprintf("%s joined the game.", name))
	out.sendTo(id, s.gameStateMsg())

	if s.phase == PhaseIdle && !s.sessionActive && s.roster.Size() >= s.cfg.MinPlayers {
		s.beginCountdownLocked(&out)
	}

	s.mu.Unlock()
	out.flush(s.gw)
	return name
}

// Leave removes a participant. A departing drawer ends the round; falling
// below the minimum ends the session (or, policy permitting, cancels the
// countdown).
func (s *Session) Leave(id string) {
	s.mu.Lock()
	var out outbox

	name := s.roster.Name(id)
	if name == "" {
		s.mu.Unlock()
		return
	}

	wasDrawer := s.phase == PhaseRound && id == s.drawerID
	if wasDrawer {
		// Capture the pre-departure successor so the rotation is not
		// reset to the front by the removal.
		if succ, ok := s.roster.NextDrawer(id); ok && succ != id {
			s.nextDrawerHint = succ
		}
	}

	s.roster.Remove(id)
	log.Printf("[Leave] %s (%q) left (%d players remain)", id, name, s.roster.Size())

	out.broadcast(s.userListMsg())
	out.systemChat(fmt.Sprintf("%s left the game.", name))

	switch {
	case wasDrawer:
		s.endRoundLocked(&out, endReasonDrawerLeft, name)
	case s.phase == PhaseCountdown && s.cfg.CancelCountdownBelowMin && s.roster.Size() < s.cfg.MinPlayers:
		s.cancelCountdownLocked(&out)
	case s.sessionActive && s.roster.Size() < s.cfg.MinPlayers:
		if s.phase == PhaseRound {
			s.endRoundLocked(&out, endReasonTooFew, "")
		} else {
			s.endSessionLocked(&out, true)
		}
	}

	s.mu.Unlock()
	out.flush(s.gw)
}

// Chat broadcasts a plain chat line. Empty or whitespace-only text is
// dropped.
func (s *Session) Chat(id, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	var out outbox
	if name := s.roster.Name(id); name != "" {
		out.broadcast(Message[ChatData]{Type: MsgChatMessage, Data: ChatData{From: name, Text: text}})
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

// Guess evaluates text against the active word. The drawer's own
// submissions are always treated as plain chat and never evaluated. A
// correct guess awards the guesser +10 and the drawer +5 and ends the
// round.
func (s *Session) Guess(id, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	s.mu.Lock()
	var out outbox

	name := s.roster.Name(id)
	if name == "" {
		s.mu.Unlock()
		return
	}

	isDrawer := id == s.drawerID && s.drawerID != ""
	active := s.phase == PhaseRound && s.word != ""
	correct := active && !isDrawer && strings.EqualFold(trimmed, strings.TrimSpace(s.word))

	if !correct {
		out.broadcast(Message[ChatData]{Type: MsgChatMessage, Data: ChatData{From: name, Text: trimmed}})
		s.mu.Unlock()
		out.flush(s.gw)
		return
	}

	s.board.Award(name, 10)
	if drawerName := s.roster.Name(s.drawerID); drawerName != "" {
		s.board.Award(drawerName, 5)
	}
	log.Printf("[Guess] %q guessed the word %q", name, s.word)

	out.systemChat(fmt.Sprintf("%s guessed the word!", name))
	out.broadcast(s.scoreUpdateMsg())
	s.endRoundLocked(&out, endReasonGuessed, "")

	s.mu.Unlock()
	out.flush(s.gw)
}

// Stroke relays an opaque stroke payload to everyone but the sender,
// provided the sender is the current drawer. Anything else is silently
// dropped.
func (s *Session) Stroke(id string, payload json.RawMessage) {
	s.mu.Lock()
	var out outbox
	if s.phase == PhaseRound && id == s.drawerID {
		out.broadcastExcept(id, Message[StrokeData]{Type: MsgRemoteStroke, Data: payload})
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

// Clear broadcasts a board wipe, drawer only.
func (s *Session) Clear(id string) {
	s.mu.Lock()
	var out outbox
	if s.phase == PhaseRound && id == s.drawerID {
		out.broadcast(Message[struct{}]{Type: MsgClearBoard})
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

// Start handles a manual start request: from idle with enough players the
// session begins immediately, skipping the countdown. Otherwise the
// requester alone gets an informational chat line.
func (s *Session) Start(id string) {
	s.mu.Lock()
	var out outbox
	switch {
	case s.sessionActive || s.phase == PhaseCountdown:
		out.sendTo(id, Message[ChatData]{Type: MsgChatMessage, Data: ChatData{From: SystemName, Text: "A game is already running."}})
	case s.roster.Size() < s.cfg.MinPlayers:
		out.sendTo(id, Message[ChatData]{Type: MsgChatMessage, Data: ChatData{
			From: SystemName,
			Text: fmt.Sprintf("Need at least %d players to start.", s.cfg.MinPlayers),
		}})
	default:
		log.Printf("[Start] manual start by %s", id)
		s.startSessionLocked(&out)
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

// Stop force-stops the running session or countdown: the same cleanup as
// a natural session end, without the leaderboard ceremony.
func (s *Session) Stop(id string) {
	s.mu.Lock()
	var out outbox
	if !s.sessionActive && s.phase != PhaseCountdown {
		out.sendTo(id, Message[ChatData]{Type: MsgChatMessage, Data: ChatData{From: SystemName, Text: "No game is currently running."}})
	} else {
		log.Printf("[Stop] manual stop by %s", id)
		if s.phase == PhaseCountdown {
			s.cancelCountdownLocked(&out)
		} else {
			s.endSessionLocked(&out, false)
		}
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

// =============================================================================
// COUNTDOWN
// =============================================================================

func (s *Session) beginCountdownLocked(out *outbox) {
	s.flushPendingResetLocked(out)
	s.phase = PhaseCountdown
	s.countdownSeq++
	s.countdownRemaining = s.cfg.CountdownSeconds
	log.Printf("[beginCountdown] starting in %d ticks", s.countdownRemaining)

	if s.countdownRemaining <= 0 {
		s.startSessionLocked(out)
		return
	}

	out.broadcast(Message[CountdownData]{Type: MsgCountdown, Data: CountdownData{SecondsRemaining: s.countdownRemaining}})
	seq := s.countdownSeq
	s.countdownTimer = scheduleTicks(s.cfg.TickInterval, func() { s.onCountdownTick(seq) })
}

func (s *Session) onCountdownTick(seq int) {
	s.mu.Lock()
	var out outbox
	// countdownSeq distinguishes successive countdowns; a tick left in
	// flight by a cancelled one must not shorten its successor.
	if s.phase != PhaseCountdown || seq != s.countdownSeq {
		s.mu.Unlock()
		return
	}
	s.countdownRemaining--
	if s.countdownRemaining > 0 {
		out.broadcast(Message[CountdownData]{Type: MsgCountdown, Data: CountdownData{SecondsRemaining: s.countdownRemaining}})
	} else {
		out.broadcast(Message[CountdownData]{Type: MsgCountdown, Data: CountdownData{SecondsRemaining: 0}})
		s.countdownTimer.Cancel()
		s.countdownTimer = nil
		s.startSessionLocked(&out)
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

func (s *Session) cancelCountdownLocked(out *outbox) {
	log.Printf("[cancelCountdown] countdown aborted")
	s.countdownTimer.Cancel()
	s.countdownTimer = nil
	s.phase = PhaseIdle
	s.countdownRemaining = 0
	out.systemChat("Not enough players, start cancelled.")
	out.broadcast(s.gameStateMsg())
}

// =============================================================================
// SESSION & ROUND TRANSITIONS
// =============================================================================

func (s *Session) startSessionLocked(out *outbox) {
	s.flushPendingResetLocked(out)
	s.sessionSeq++
	s.sessionActive = true
	s.sessionEndsAt = time.Now().Add(s.cfg.SessionDuration)
	log.Printf("[startSession] session %d started, ends in %v", s.sessionSeq, s.cfg.SessionDuration)

	seq := s.sessionSeq
	s.sessionTimer = schedule(s.cfg.SessionDuration, func() { s.onSessionExpired(seq) })

	out.systemChat("The game is starting!")
	s.startRoundLocked(out)
}

func (s *Session) startRoundLocked(out *outbox) {
	drawerID := s.nextDrawerHint
	if drawerID == "" || !s.roster.Has(drawerID) {
		var ok bool
		drawerID, ok = s.roster.NextDrawer(s.lastDrawerID)
		if !ok {
			// No eligible drawer; stay in a waiting posture. The session
			// timer still bounds this state.
			log.Printf("[startRound] no eligible drawer, round aborted")
			s.phase = PhaseIntermission
			return
		}
	}
	s.nextDrawerHint = ""

	s.roundSeq++
	s.drawerID = drawerID
	s.word = s.pool.Pick()
	s.roundEndsAt = time.Now().Add(s.cfg.RoundDuration)
	s.phase = PhaseRound

	drawerName := s.roster.Name(drawerID)
	log.Printf("[startRound] round %d: drawer=%q word=%q", s.roundSeq, drawerName, s.word)

	out.broadcast(Message[struct{}]{Type: MsgClearBoard})
	out.systemChat(fmt.Sprintf("%s is drawing now!", drawerName))
	out.broadcast(s.gameStateMsg())
	out.sendTo(drawerID, Message[WordData]{Type: MsgYourWord, Data: WordData{Word: s.word}})

	seq := s.roundSeq
	s.roundTimer = schedule(s.cfg.RoundDuration, func() { s.onRoundTimeout(seq) })
	s.tickTimer = scheduleTicks(s.cfg.TickInterval, s.onStateTick)
}

func (s *Session) onRoundTimeout(seq int) {
	s.mu.Lock()
	var out outbox
	// A round that ended early has already cancelled this handle; the
	// sequence check catches the remaining race where a new round started
	// between expiry and lock acquisition.
	if s.phase != PhaseRound || seq != s.roundSeq {
		s.mu.Unlock()
		return
	}
	s.endRoundLocked(&out, endReasonTimeout, "")
	s.mu.Unlock()
	out.flush(s.gw)
}

func (s *Session) onStateTick() {
	s.mu.Lock()
	var out outbox
	if s.phase == PhaseRound {
		out.broadcast(s.gameStateMsg())
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

func (s *Session) endRoundLocked(out *outbox, reason, detail string) {
	if s.phase != PhaseRound {
		return
	}
	s.roundTimer.Cancel()
	s.roundTimer = nil
	s.tickTimer.Cancel()
	s.tickTimer = nil

	word := s.word
	switch reason {
	case endReasonGuessed:
		out.systemChat(fmt.Sprintf("The word was %q.", word))
	case endReasonTimeout:
		out.systemChat(fmt.Sprintf("Time's up! The word was %q.", word))
	case endReasonDrawerLeft:
		out.systemChat(fmt.Sprintf("%s was drawing. The word was %q.", detail, word))
	default:
		out.systemChat(fmt.Sprintf("Round over. The word was %q.", word))
	}
	log.Printf("[endRound] round %d ended (%s), word was %q", s.roundSeq, reason, word)

	s.lastDrawerID = s.drawerID
	s.drawerID = ""
	s.word = ""
	s.roundEndsAt = time.Time{}
	s.phase = PhaseIntermission

	if !s.sessionActive {
		return
	}
	if !time.Now().Before(s.sessionEndsAt) || s.roster.Size() < s.cfg.MinPlayers {
		s.endSessionLocked(out, true)
		return
	}

	out.broadcast(s.gameStateMsg())
	seq := s.sessionSeq
	s.intermissionTimer = schedule(s.cfg.Intermission, func() { s.onIntermissionOver(seq) })
}

func (s *Session) onIntermissionOver(seq int) {
	s.mu.Lock()
	var out outbox
	if !s.sessionActive || s.phase != PhaseIntermission || seq != s.sessionSeq {
		s.mu.Unlock()
		return
	}
	s.intermissionTimer = nil
	// Re-check the minimum at fire time; participants may have left
	// during the intermission.
	if s.roster.Size() < s.cfg.MinPlayers {
		s.endSessionLocked(&out, true)
	} else {
		s.startRoundLocked(&out)
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

func (s *Session) onSessionExpired(seq int) {
	s.mu.Lock()
	var out outbox
	if !s.sessionActive || seq != s.sessionSeq {
		s.mu.Unlock()
		return
	}
	log.Printf("[onSessionExpired] session %d time is up", seq)
	// Clamp the deadline so endRound's elapsed check cannot observe the
	// clock as not-yet-expired when the timer fired a hair early.
	if time.Now().Before(s.sessionEndsAt) {
		s.sessionEndsAt = time.Now()
	}
	if s.phase == PhaseRound {
		// endRound sees the expired clock and cascades into endSession.
		s.endRoundLocked(&out, endReasonSessionUp, "")
	} else {
		s.endSessionLocked(&out, true)
	}
	s.mu.Unlock()
	out.flush(s.gw)
}

// endSessionLocked tears the session down. With ceremony the final
// leaderboard and winner are announced; a forced stop skips that. Either
// way every outstanding timer is cancelled so no stale transition can
// fire afterwards.
func (s *Session) endSessionLocked(out *outbox, ceremony bool) {
	s.cancelAllTimersLocked()

	if ceremony {
		ranked := s.board.Ranked()
		winner := ""
		if len(ranked) > 0 {
			winner = ranked[0].Name
		}
		out.broadcast(Message[SessionEndedData]{Type: MsgSessionEnded, Data: SessionEndedData{
			Winner:      winner,
			FinalScores: s.board.Snapshot(),
			Leaderboard: ranked,
		}})
		if winner != "" {
			out.systemChat(fmt.Sprintf("Game over! %s wins.", winner))
		} else {
			out.systemChat("Game over!")
		}
		log.Printf("[endSession] session %d over, winner=%q", s.sessionSeq, winner)
	} else {
		out.systemChat("Game stopped.")
		log.Printf("[endSession] session %d force-stopped", s.sessionSeq)
	}

	s.sessionActive = false
	s.sessionEndsAt = time.Time{}
	s.phase = PhaseIdle
	s.drawerID = ""
	s.word = ""
	s.roundEndsAt = time.Time{}
	s.lastDrawerID = ""
	s.nextDrawerHint = ""

	out.broadcast(s.gameStateMsg())

	seq := s.sessionSeq
	s.resetTimer = schedule(s.cfg.ScoreResetDelay, func() { s.onScoreReset(seq) })
}

func (s *Session) onScoreReset(seq int) {
	s.mu.Lock()
	var out outbox
	if s.sessionActive || seq != s.sessionSeq {
		s.mu.Unlock()
		return
	}
	s.resetTimer = nil
	s.board.Reset()
	for _, name := range s.roster.Names() {
		s.board.Award(name, 0)
	}
	out.broadcast(s.scoreUpdateMsg())
	log.Printf("[onScoreReset] scores cleared")
	s.mu.Unlock()
	out.flush(s.gw)
}

// flushPendingResetLocked applies a still-pending post-game score reset
// before a new countdown or session begins. Without this the new game
// bumps the sequence counters, the delayed callback turns into a no-op,
// and the old scores leak into the new session.
func (s *Session) flushPendingResetLocked(out *outbox) {
	if s.resetTimer == nil {
		return
	}
	s.resetTimer.Cancel()
	s.resetTimer = nil
	s.board.Reset()
	for _, name := range s.roster.Names() {
		s.board.Award(name, 0)
	}
	out.broadcast(s.scoreUpdateMsg())
	log.Printf("[flushPendingReset] scores cleared before new game")
}

func (s *Session) cancelAllTimersLocked() {
	s.countdownTimer.Cancel()
	s.roundTimer.Cancel()
	s.tickTimer.Cancel()
	s.intermissionTimer.Cancel()
	s.sessionTimer.Cancel()
	s.resetTimer.Cancel()
	s.countdownTimer = nil
	s.roundTimer = nil
	s.tickTimer = nil
	s.intermissionTimer = nil
	s.sessionTimer = nil
	s.resetTimer = nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (s *Session) userListMsg() Message[[]string] {
	return Message[[]string]{Type: MsgUserList, Data: s.roster.Names()}
}

func (s *Session) scoreUpdateMsg() Message[map[string]int] {
	return Message[map[string]int]{Type: MsgScoreUpdate, Data: s.board.Snapshot()}
}

func (s *Session) gameStateMsg() Message[GameStateData] {
	return Message[GameStateData]{Type: MsgGameState, Data: GameStateData{
		Active:                  s.sessionActive,
		CurrentDrawerName:       s.roster.Name(s.drawerID),
		HasActiveWord:           s.word != "",
		RoundSecondsRemaining:   secondsUntil(s.roundEndsAt),
		SessionSecondsRemaining: secondsUntil(s.sessionEndsAt),
	}}
}

func secondsUntil(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	d := time.Until(t)
	if d < 0 {
		return 0
	}
	return int((d + time.Second/2) / time.Second)
}

// State returns a point-in-time snapshot for the HTTP status endpoint.
func (s *Session) State() (GameStateData, []string, map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameStateMsg().Data, s.roster.Names(), s.board.Snapshot()
}
