package shoehive

import "maps"

// GetPlayerState requests the current player state.
func (c *Client) GetPlayerState() bool {
	return c.SendCommand(CommandGetPlayerState, nil)
}

// GetLobbyState requests the current lobby state.
func (c *Client) GetLobbyState() bool {
	return c.SendCommand(CommandGetLobbyState, nil)
}

// CreateTable creates a table. Options are sent as top-level fields.
func (c *Client) CreateTable(options map[string]any) bool {
	return c.SendCommand(CommandCreateTable, maps.Clone(options))
}

// JoinTable joins the table with the given ID.
func (c *Client) JoinTable(tableID string) bool {
	return c.SendCommand(CommandJoinTable, map[string]any{"tableId": tableID})
}

// GetTableState requests the state of the given table.
func (c *Client) GetTableState(tableID string) bool {
	return c.SendCommand(CommandGetTableState, map[string]any{"tableId": tableID})
}

// LeaveTable leaves the given table.
func (c *Client) LeaveTable(tableID string) bool {
	return c.SendCommand(CommandLeaveTable, map[string]any{"tableId": tableID})
}

// SitAtSeat takes the seat at seatIndex.
func (c *Client) SitAtSeat(tableID string, seatIndex int) bool {
	return c.SendCommand(CommandSitAtSeat, map[string]any{
		"tableId":   tableID,
		"seatIndex": seatIndex,
	})
}

// StandFromSeat gives up the current seat.
func (c *Client) StandFromSeat(tableID string) bool {
	return c.SendCommand(CommandStandFromSeat, map[string]any{"tableId": tableID})
}

// SendGameCommand sends a game-specific action, prefixed with "game:".
func (c *Client) SendGameCommand(action string, data map[string]any) bool {
	return c.SendCommand(CommandGamePrefix+action, data)
}
