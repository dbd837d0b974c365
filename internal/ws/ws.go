package ws

import (
	"errors"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/Kelvination/Cornpanion/internal/game"
	"github.com/Kelvination/Cornpanion/internal/room"
	"github.com/Kelvination/Cornpanion/internal/rtdb"
	"github.com/Kelvination/Cornpanion/internal/session"
)

// Server bridges socket connections to the room directory and the shared
// document store. Every connection that creates or joins a room gets its
// own store subscription; each change to the room document is pushed as a
// full snapshot, own writes included.
type Server struct {
	io      *socketio.Server
	store   *rtdb.Store
	dir     *room.Directory
	baseURL string
}

// connCtx is the per-connection state carried in the socket context.
type connCtx struct {
	userID string
	roomID string
	sess   *session.Session
	cancel func()
}

type identifyPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type scorePayload struct {
	Team   int `json:"team"`
	Points int `json:"points"`
	Score  int `json:"score"`
}

func New(store *rtdb.Store, dir *room.Directory, baseURL string) *Server {
	s := &Server{
		io:      socketio.NewServer(nil),
		store:   store,
		dir:     dir,
		baseURL: baseURL,
	}
	s.register()
	return s
}

// Mount wires the socket server into the gin router and starts serving.
// The returned server should be closed on shutdown.
func (s *Server) Mount(r *gin.Engine) *socketio.Server {
	r.GET("/socket.io/*any", gin.WrapH(s.io))
	r.POST("/socket.io/*any", gin.WrapH(s.io))
	go func() {
		if err := s.io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket server stopped")
		}
	}()
	return s.io
}

func (s *Server) register() {
	s.io.OnConnect("/", func(c socketio.Conn) error {
		c.SetContext(&connCtx{})
		return nil
	})

	s.io.OnError("/", func(c socketio.Conn, err error) {
		log.Warn().Err(err).Msg("socket error")
	})

	s.io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		s.leave(c)
	})

	s.io.OnEvent("/", EventRoomCreate, func(c socketio.Conn, p identifyPayload) {
		s.leave(c) // drop any previous room before hosting a new one

		roomID, err := s.dir.Create(p.UserID, p.UserName)
		if err != nil {
			emitError(c, "Failed to create lobby. Please try again.")
			return
		}
		sess, err := session.NewNetworked(s.store, roomID, p.UserID, true)
		if err != nil {
			emitError(c, "Failed to create lobby. Please try again.")
			return
		}
		s.attach(c, roomID, p.UserID, sess)
		c.Emit(EventRoomCreated, map[string]any{
			"roomId":    roomID,
			"shareLink": room.ShareLink(s.baseURL, roomID),
		})
	})

	s.io.OnEvent("/", EventRoomJoin, func(c socketio.Conn, p joinPayload) {
		s.leave(c)

		if _, err := s.dir.Join(p.RoomID, p.UserID, p.UserName); err != nil {
			emitError(c, "Failed to join lobby. Please check the code and try again.")
			return
		}
		sess, err := session.NewNetworked(s.store, p.RoomID, p.UserID, false)
		if err != nil {
			emitError(c, "Lobby not found or has been closed")
			return
		}
		s.attach(c, p.RoomID, p.UserID, sess)
		c.Emit(EventRoomJoined, map[string]any{"roomId": p.RoomID})
	})

	s.io.OnEvent("/", EventRoomLeave, func(c socketio.Conn) {
		s.leave(c)
	})

	s.io.OnEvent("/", EventScoreAdd, func(c socketio.Conn, p scorePayload) {
		s.apply(c, func(sess *session.Session) error {
			return sess.AddPoints(p.Team, p.Points)
		})
	})

	s.io.OnEvent("/", EventScoreBust, func(c socketio.Conn, p scorePayload) {
		s.apply(c, func(sess *session.Session) error {
			return sess.Bust(p.Team)
		})
	})

	s.io.OnEvent("/", EventScoreOverride, func(c socketio.Conn, p scorePayload) {
		s.apply(c, func(sess *session.Session) error {
			return sess.Override(p.Team, p.Score)
		})
	})

	s.io.OnEvent("/", EventScoreUndo, func(c socketio.Conn) {
		s.apply(c, func(sess *session.Session) error {
			return sess.Undo()
		})
	})

	s.io.OnEvent("/", EventGameReset, func(c socketio.Conn) {
		s.apply(c, func(sess *session.Session) error {
			return sess.Reset()
		})
	})

	s.io.OnEvent("/", EventSettingsUpdate, func(c socketio.Conn, patch game.SettingsPatch) {
		s.apply(c, func(sess *session.Session) error {
			return sess.UpdateSettings(patch)
		})
	})
}

// attach stores the connection's room context and subscribes it to the
// room document. A not-found snapshot is a forced leave: the room is gone,
// typically because the host left.
func (s *Server) attach(c socketio.Conn, roomID, userID string, sess *session.Session) {
	ctx := c.Context().(*connCtx)
	ctx.userID = userID
	ctx.roomID = roomID
	ctx.sess = sess

	c.Join(roomID)
	ctx.cancel = s.store.Subscribe(roomID, func(snap rtdb.Snapshot) {
		if !snap.Exists {
			c.Emit(EventRoomClosed, map[string]any{"roomId": roomID})
			s.leave(c)
			return
		}
		c.Emit(EventRoomState, snap.Doc)
	})
}

// leave detaches the connection from its room, if any: the subscription is
// cancelled, the membership record removed, and the room torn down when the
// leaver is the host.
func (s *Server) leave(c socketio.Conn) {
	ctx, ok := c.Context().(*connCtx)
	if !ok || ctx.roomID == "" {
		return
	}
	roomID, userID := ctx.roomID, ctx.userID
	cancel := ctx.cancel
	ctx.roomID = ""
	ctx.sess = nil
	ctx.cancel = nil

	if cancel != nil {
		cancel()
	}
	c.Leave(roomID)
	s.dir.Leave(roomID, userID)
}

func (s *Server) apply(c socketio.Conn, op func(*session.Session) error) {
	ctx, ok := c.Context().(*connCtx)
	if !ok || ctx.sess == nil {
		emitError(c, "Not connected to a lobby")
		return
	}
	switch err := op(ctx.sess); {
	case err == nil:
	case errors.Is(err, session.ErrNotPermitted):
		emitError(c, "You do not have permission to update the score")
	case errors.Is(err, session.ErrRoomClosed):
		emitError(c, "Lobby not found or has been closed")
		s.leave(c)
	default:
		emitError(c, err.Error())
	}
}

func emitError(c socketio.Conn, msg string) {
	c.Emit(EventError, map[string]any{"message": msg})
}
