// Package ws implements the /ws/stream WebSocket hub.
//
// Connected overlay clients receive a {"event":"stats", "data":{...}}
// envelope on connect and then every broadcast interval: cached user count,
// dictionary size, and dictionary age. Slow clients whose send buffer fills
// are disconnected rather than allowed to stall the broadcast.
package ws
