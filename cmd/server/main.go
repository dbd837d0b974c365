package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Kelvination/Cornpanion/internal/config"
	"github.com/Kelvination/Cornpanion/internal/game"
	"github.com/Kelvination/Cornpanion/internal/room"
	"github.com/Kelvination/Cornpanion/internal/rtdb"
	"github.com/Kelvination/Cornpanion/internal/session"
	"github.com/Kelvination/Cornpanion/internal/ws"
	staticserver "github.com/Kelvination/Cornpanion/static"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Cornpanion - cornhole scorekeeping with shareable lobbies

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  BASE_URL            Public base URL used in share links (default: http://localhost:PORT)
  DATA_DIR            Directory for solo-mode records and the device id (default: ./data)
  ROOM_CODE_ATTEMPTS  Retry budget for lobby code generation (default: 10)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Cornpanion %s\n", version)
		return
	}

	_ = godotenv.Load()

	// Determine port
	port := *portFlag
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Config
	cfg := config.FromEnv()

	// Document store, room directory, solo session
	store := rtdb.NewStore()
	dir := room.NewDirectory(store, cfg.RoomCodeAttempts)

	local, err := session.NewLocalStore(cfg.DataDir)
	if err != nil {
		log.Fatal(err)
	}
	deviceID, err := local.DeviceID()
	if err != nil {
		log.Fatal(err)
	}
	solo := session.NewSolo(local)
	zerologlog.Info().Str("deviceId", deviceID).Msg("local identity ready")

	// Socket server
	sock := ws.New(store, dir, cfg.BaseURL)
	io := sock.Mount(r)
	defer io.Close()

	// REST API
	r.POST("/api/rooms", func(c *gin.Context) {
		var req struct {
			UserID   string `json:"userId"`
			UserName string `json:"userName"`
		}
		if err := c.BindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		roomID, err := dir.Create(req.UserID, req.UserName)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no_free_code"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"roomId":    roomID,
			"shareLink": room.ShareLink(cfg.BaseURL, roomID),
		})
	})

	r.GET("/api/rooms/:id", func(c *gin.Context) {
		doc, ok := store.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	r.GET("/api/rooms/:id/qr", func(c *gin.Context) {
		roomID := c.Param("id")
		if !store.Exists(roomID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
			return
		}
		png, err := qrcode.Encode(room.ShareLink(cfg.BaseURL, roomID), qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr_failed"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	// Solo mode: the device-local game, persisted across restarts
	r.GET("/api/solo", func(c *gin.Context) {
		settings, state, _ := solo.Snapshot()
		c.JSON(http.StatusOK, gin.H{"settings": settings, "gameState": state})
	})

	r.POST("/api/solo/intent", func(c *gin.Context) {
		var req struct {
			Action string `json:"action"`
			Team   int    `json:"team"`
			Points int    `json:"points"`
			Score  int    `json:"score"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		var opErr error
		switch req.Action {
		case "add":
			opErr = solo.AddPoints(req.Team, req.Points)
		case "bust":
			opErr = solo.Bust(req.Team)
		case "override":
			opErr = solo.Override(req.Team, req.Score)
		case "undo":
			opErr = solo.Undo()
		case "reset":
			opErr = solo.Reset()
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_action"})
			return
		}
		if opErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": opErr.Error()})
			return
		}
		_, state, _ := solo.Snapshot()
		c.JSON(http.StatusOK, gin.H{"gameState": state})
	})

	r.PATCH("/api/solo/settings", func(c *gin.Context) {
		var patch game.SettingsPatch
		if err := c.BindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := solo.UpdateSettings(patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		settings, _, _ := solo.Snapshot()
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	})

	// Serve frontend (if embedded build is present) for all other routes.
	// The SPA consumes ?join=<roomId> and ?mode=host|solo at entry.
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
