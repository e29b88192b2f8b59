// Command relay-client is a manual test client for the relay. It connects to
// the /ws endpoint, prints every frame it receives, and can either send one
// audio file through the AI pipeline or a signaling offer to another
// connection.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

var (
	addr   = flag.String("addr", "localhost:8080", "relay host:port")
	token  = flag.String("token", "", "bearer token, required when the relay has auth enabled")
	audio  = flag.String("audio", "", "path of an audio file to send as one chunk")
	target = flag.String("target", "", "connection id to send a signaling offer to")
)

func main() {
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("connecting to %s", u.String())

	headers := http.Header{}
	if *token != "" {
		headers.Add("Authorization", "Bearer "+*token)
	}

	c, _, err := websocket.DefaultDialer.Dial(u.String(), headers)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go readFrames(c, done)

	if *audio != "" {
		sendAudio(c, *audio)
	}
	if *target != "" {
		sendOffer(c, *target)
	}

	select {
	case <-done:
		return
	case <-interrupt:
		log.Println("interrupt")
		err := c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func readFrames(c *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, frame, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			return
		}
		log.Printf("recv: %s", frame)
	}
}

func sendAudio(c *websocket.Conn, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("read audio:", err)
	}
	if err := c.WriteMessage(websocket.BinaryMessage, data); err != nil {
		log.Fatal("send audio:", err)
	}
	log.Printf("sent audio chunk (%d bytes)", len(data))
}

func sendOffer(c *websocket.Conn, target string) {
	offer := map[string]interface{}{
		"type":    "offer",
		"target":  target,
		"payload": map[string]string{"sdp": "v=0 test offer"},
	}
	frame, _ := json.Marshal(offer)
	if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Fatal("send offer:", err)
	}
	log.Printf("sent offer to %s", target)
}
