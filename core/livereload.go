package core

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const LiveReloadPath = "/__quiz_reload"

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
}

type LiveReloader struct {
	clients  map[*websocket.Conn]string
	lock     sync.Mutex
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

var NewLiveReloader = func(log logrus.FieldLogger) LiveReloaderInterface {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LiveReloader{
		clients: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		lr.log.WithError(err).Debug("live reload upgrade failed")
		return
	}

	id := uuid.NewString()
	lr.lock.Lock()
	lr.clients[conn] = id
	lr.lock.Unlock()
	lr.log.WithField("client", id).Debug("live reload client connected")

	go func() {
		defer func() {
			lr.lock.Lock()
			delete(lr.clients, conn)
			lr.lock.Unlock()
			conn.Close()
			lr.log.WithField("client", id).Debug("live reload client gone")
		}()

		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
	}()
}

func (lr *LiveReloader) BroadcastReload() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	for conn, id := range lr.clients {
		err := conn.WriteMessage(websocket.TextMessage, []byte("reload"))
		if err != nil {
			lr.log.WithError(err).WithField("client", id).Debug("dropping live reload client")
			conn.Close()
			delete(lr.clients, conn)
		}
	}
}

func (lr *LiveReloader) ClientCount() int {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return len(lr.clients)
}
