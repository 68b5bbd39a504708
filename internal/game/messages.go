package game

import "encoding/json"

// Message is the envelope for every frame crossing the websocket,
// inbound and outbound. Data is typed per message kind.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// MessageType returns the type tag regardless of the payload type.
func (m Message[T]) MessageType() string {
	return m.Type
}

// Inbound message types.
const (
	EventJoin      = "join"
	EventLeaveGame = "leaveGame"
	EventStroke    = "stroke"
	EventClear     = "clear"
	EventChat      = "chat"
	EventGuess     = "guess"
	EventStartGame = "startGame"
	EventStopGame  = "stopGame"
)

// Outbound message types.
const (
	MsgUserList     = "userList"
	MsgScoreUpdate  = "scoreUpdate"
	MsgGameState    = "gameState"
	MsgClearBoard   = "clearBoard"
	MsgChatMessage  = "chatMessage"
	MsgYourWord     = "yourWord"
	MsgCountdown    = "countdown"
	MsgRemoteStroke = "remoteStroke"
	MsgSessionEnded = "sessionEnded"
)

// SystemName is the sender shown on controller-generated chat messages.
const SystemName = "System"

type ChatData struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// TextData is the inbound payload for chat and guess frames. The sender
// is taken from the connection, never from the payload.
type TextData struct {
	Text string `json:"text"`
}

type GameStateData struct {
	Active                  bool   `json:"active"`
	CurrentDrawerName       string `json:"currentDrawerName"`
	HasActiveWord           bool   `json:"hasActiveWord"`
	RoundSecondsRemaining   int    `json:"roundSecondsRemaining"`
	SessionSecondsRemaining int    `json:"sessionSecondsRemaining"`
}

type CountdownData struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

type WordData struct {
	Word string `json:"word"`
}

type ScoreRow struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type SessionEndedData struct {
	Winner      string         `json:"winner"`
	FinalScores map[string]int `json:"finalScores"`
	Leaderboard []ScoreRow     `json:"leaderboard"`
}

// Gateway delivers controller-produced messages to participants. All
// delivery is fire-and-forget; the controller never blocks on it.
type Gateway interface {
	Broadcast(msg any)
	BroadcastExcept(id string, msg any)
	SendTo(id string, msg any)
}

// envelope is a queued outbound message. Exactly one of to/except may be
// set; neither set means broadcast to everyone.
type envelope struct {
	to     string
	except string
	msg    any
}

// outbox collects messages produced inside a critical section so they can
// be delivered after the session lock is released.
type outbox struct {
	queue []envelope
}

func (o *outbox) broadcast(msg any) {
	o.queue = append(o.queue, envelope{msg: msg})
}

func (o *outbox) broadcastExcept(id string, msg any) {
	o.queue = append(o.queue, envelope{except: id, msg: msg})
}

func (o *outbox) sendTo(id string, msg any) {
	o.queue = append(o.queue, envelope{to: id, msg: msg})
}

func (o *outbox) systemChat(text string) {
	o.broadcast(Message[ChatData]{Type: MsgChatMessage, Data: ChatData{From: SystemName, Text: text}})
}

func (o *outbox) flush(gw Gateway) {
	for _, e := range o.queue {
		switch {
		case e.to != "":
			gw.SendTo(e.to, e.msg)
		case e.except != "":
			gw.BroadcastExcept(e.except, e.msg)
		default:
			gw.Broadcast(e.msg)
		}
	}
	o.queue = nil
}

// StrokeData carries an opaque stroke payload. The server relays it
// verbatim and never inspects the points.
type StrokeData = json.RawMessage
