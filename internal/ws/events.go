package ws

// Socket event names, client to server.
const (
	EventRoomCreate     = "room:create"
	EventRoomJoin       = "room:join"
	EventRoomLeave      = "room:leave"
	EventScoreAdd       = "score:add"
	EventScoreBust      = "score:bust"
	EventScoreOverride  = "score:override"
	EventScoreUndo      = "score:undo"
	EventGameReset      = "game:reset"
	EventSettingsUpdate = "settings:update"
)

// Socket event names, server to client.
const (
	EventRoomCreated = "room:created"
	EventRoomJoined  = "room:joined"
	EventRoomState   = "room:state"
	EventRoomClosed  = "room:closed"
	EventError       = "error"
)
