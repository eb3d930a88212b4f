// Command hostsim drives a running chatsync daemon the way a host chat
// application would: it pushes conversation snapshots and turn events over
// the control API and reports the daemon status afterwards.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const baseURL = "http://127.0.0.1:18090"

var httpClient = &http.Client{Timeout: 5 * time.Second}

type message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type snapshot struct {
	ChatID    string    `json:"chatId"`
	Character string    `json:"character"`
	Messages  []message `json:"messages"`
}

func main() {
	fmt.Println("=== ChatSync Host Simulator ===")

	fmt.Print("Waiting for daemon... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: daemon not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	history := []message{
		{Role: "system", Text: "You are Aria.", Timestamp: time.Now()},
	}

	// Simulate two conversations with a switch in between.
	for conv := 1; conv <= 2; conv++ {
		chatID := fmt.Sprintf("sim-chat-%d", conv)
		fmt.Printf("\n--- Conversation %s ---\n", chatID)
		for turn := 1; turn <= 3; turn++ {
			history = append(history,
				message{Role: "user", Text: fmt.Sprintf("question %d in %s", turn, chatID), Timestamp: time.Now()},
				message{Role: "assistant", Text: fmt.Sprintf("answer %d in %s", turn, chatID), Timestamp: time.Now()},
			)
			post("/snapshot", snapshot{ChatID: chatID, Character: "Aria", Messages: history})
			post("/turn", map[string]int{"index": len(history) - 1})
			time.Sleep(100 * time.Millisecond)
		}
		history = history[:1]
	}

	fmt.Println("\n--- Manual flush ---")
	post("/flush", struct{}{})

	resp, err := httpClient.Get(baseURL + "/status")
	if err != nil {
		fmt.Println("status error:", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("\nStatus: %s\n", body)
}

func post(path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		fmt.Printf("POST %s marshal error: %s\n", path, err)
		return
	}
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("POST %s error: %s\n", path, err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	fmt.Printf("POST %s -> %d\n", path, resp.StatusCode)
}
