// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used within the room handlers.
// These provide more specific reasons for closure than standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Seat token was invalid, expired or issued for another room.
	InvalidPlayerIDError  = 3002 // Player ID from the token holds no seat in the room.
	InvalidRoomIDError    = 3003 // Target room ID in the WS URL does not exist or is invalid.
	RoomClosedError       = 3004 // Room was removed while the client was connected.
)
