package shoehive

// CommandType identifies an outbound command action.
type CommandType = string

// Command actions understood by the game server.
const (
	CommandGetPlayerState CommandType = "player:state:get"
	CommandGetLobbyState  CommandType = "lobby:state:get"
	CommandCreateTable    CommandType = "table:create"
	CommandJoinTable      CommandType = "table:join"
	CommandGetTableState  CommandType = "table:state:get"
	CommandLeaveTable     CommandType = "table:leave"
	CommandSitAtSeat      CommandType = "table:seat:sit"
	CommandStandFromSeat  CommandType = "table:seat:stand"

	// CommandGamePrefix prefixes game-specific actions sent with SendGameCommand.
	CommandGamePrefix = "game:"
)

// MessageType identifies an inbound message by its "type" field.
type MessageType = string

// Message types emitted by the game server.
const (
	MessagePlayerState MessageType = "player:state"
	MessageLobbyState  MessageType = "lobby:state"
	MessageTableState  MessageType = "table:state"
	MessageError       MessageType = "error"
)

// Client lifecycle events. Inbound messages are additionally emitted under
// their own type name.
const (
	EventConnected       = "connected"
	EventDisconnected    = "disconnected"
	EventError           = "error"
	EventMessage         = "message"
	EventReconnectFailed = "reconnect_failed"
)

// ErrorKind classifies errors delivered on the EventError event.
type ErrorKind string

const (
	// ErrorKindConnection means the transport could not be established.
	ErrorKindConnection ErrorKind = "connectionError"
	// ErrorKindParse means an inbound payload was not a JSON object.
	ErrorKindParse ErrorKind = "parseError"
	// ErrorKindSocket means the transport failed after it was established.
	ErrorKindSocket ErrorKind = "socketError"
	// ErrorKindServer means the server sent a message of type "error".
	ErrorKindServer ErrorKind = "serverError"
)

// ConnectionState is the lifecycle state of a Client.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
)

// CommandTypes returns the command action table keyed by name.
// A new map is returned on every call.
func CommandTypes() map[string]string {
	return map[string]string{
		"GET_PLAYER_STATE": CommandGetPlayerState,
		"GET_LOBBY_STATE":  CommandGetLobbyState,
		"CREATE_TABLE":     CommandCreateTable,
		"JOIN_TABLE":       CommandJoinTable,
		"GET_TABLE_STATE":  CommandGetTableState,
		"LEAVE_TABLE":      CommandLeaveTable,
		"SIT_AT_SEAT":      CommandSitAtSeat,
		"STAND_FROM_SEAT":  CommandStandFromSeat,
	}
}

// MessageTypes returns the inbound message type table keyed by name.
func MessageTypes() map[string]string {
	return map[string]string{
		"PLAYER_STATE": MessagePlayerState,
		"LOBBY_STATE":  MessageLobbyState,
		"TABLE_STATE":  MessageTableState,
		"ERROR":        MessageError,
	}
}

// ErrorKinds returns the error kind table keyed by name.
func ErrorKinds() map[string]ErrorKind {
	return map[string]ErrorKind{
		"CONNECTION_ERROR": ErrorKindConnection,
		"PARSE_ERROR":      ErrorKindParse,
		"SOCKET_ERROR":     ErrorKindSocket,
		"SERVER_ERROR":     ErrorKindServer,
	}
}

// ConnectionStates returns the connection state table keyed by name.
func ConnectionStates() map[string]ConnectionState {
	return map[string]ConnectionState{
		"DISCONNECTED": StateDisconnected,
		"CONNECTING":   StateConnecting,
		"CONNECTED":    StateConnected,
		"RECONNECTING": StateReconnecting,
	}
}
