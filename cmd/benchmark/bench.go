package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/huy11113/cinetaste-ai/internal/cli"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
	debugURL = "http://127.0.0.1:6060/debug/vars"
)

// generateReply is a canned Gemini generateContent body whose text is a
// fenced ModifiedRecipe, so every request exercises fence stripping,
// normalization and validation.
var generateReply = func() []byte {
	text := "```json\n" + `{"modified_recipe":{"difficulty":"2","prepTimeMinutes":10,"cookTimeMinutes":15,"servings":2,` +
		`"ingredients":[{"name":"Đậu phụ","quantity":"300","unit":"g"}],` +
		`"instructions":[{"step":1,"description":"Xào đậu phụ với hành."}]},` +
		`"changes_summary":"Thay thịt bò bằng đậu phụ."}` + "\n```"
	body, _ := sonic.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 420, "candidatesTokenCount": 180, "totalTokenCount": 600},
	})
	return body
}()

const requestBody = `{
  "original_recipe": {
    "difficulty": 2, "prepTimeMinutes": 10, "cookTimeMinutes": 20, "servings": 2,
    "ingredients": [{"name": "Thịt bò", "quantity": "300", "unit": "g"}],
    "instructions": [{"step": 1, "description": "Xào thịt bò với hành."}]
  },
  "modification_request": "make it vegan"
}`

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	latency := flag.Duration("upstream-latency", 20*time.Millisecond, "Simulated Gemini latency")
	flaky := flag.Int("flaky", 0, "Percent of upstream calls that fail with 503")
	chaos := flag.Bool("chaos", false, "Simulate random client disconnections")
	flag.Parse()

	go startMockGemini(*latency, *flaky)

	fmt.Println(cli.Arrow(), "Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	configFile := "bench_config.yaml"
	if err := os.WriteFile(configFile, []byte(benchConfig), 0644); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	defer os.Remove(configFile)

	fmt.Println(cli.Arrow(), "Starting application...")
	app := exec.Command("./bin/server")
	app.Env = append(os.Environ(),
		"CONFIG_FILE="+configFile,
		"LOG_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	app.Stdout = logFile
	app.Stderr = logFile

	if err := app.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if app.Process != nil {
			_ = app.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/health", appPort))

	done := make(chan struct{})
	go func() {
		time.Sleep(2 * time.Second)
		monitorResources(app.Process.Pid, done)
	}()

	target := fmt.Sprintf("http://localhost:%d/api/ai/modify-recipe", appPort)
	fmt.Printf("%s Running benchmark: %s duration, %d req/s, %d%% flaky upstream\n", cli.Arrow(), *duration, *rate, *flaky)

	targeter := func(t *vegeta.Target) error {
		t.Method = http.MethodPost
		t.URL = target
		t.Body = []byte(requestBody)
		t.Header = http.Header{
			"Content-Type":      []string{"application/json"},
			"Authorization":     []string{"Bearer bench-key-12345"},
			"X-Benchmark-Start": []string{strconv.FormatInt(time.Now().UnixNano(), 10)},
		}
		return nil
	}

	if *chaos {
		concurrency := min(max(*rate/10, 5), 50)
		fmt.Println(cli.Style("CHAOS MODE: random client disconnects enabled", cli.Yellow))
		go startChaosMonkey(target, concurrency, done)
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true), vegeta.Timeout(2*time.Minute))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "CineTaste") {
		metrics.Add(res)
	}
	metrics.Close()
	close(done)

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("Status codes:    ", metrics.StatusCodes)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if len(seen) == 5 {
				break
			}
			if !seen[msg] {
				fmt.Println(cli.CrossMark(), msg)
				seen[msg] = true
			}
		}
	}
}

func startChaosMonkey(url string, concurrency int, done chan struct{}) {
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			client := &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 100}}

			for {
				select {
				case <-done:
					return
				default:
				}

				// hang up somewhere between 1ms and 200ms
				ctx, cancel := context.WithTimeout(context.Background(), time.Duration(rand.Intn(200)+1)*time.Millisecond)
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(requestBody))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer bench-key-12345")

				if resp, err := client.Do(req); err == nil {
					_ = resp.Body.Close()
				}
				cancel()

				time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
			}
		}()
	}
	wg.Wait()
}

// startMockGemini serves the two Gemini endpoints the app calls.
func startMockGemini(latency time.Duration, flakyPercent int) {
	mux := http.NewServeMux()

	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet {
			name := strings.TrimPrefix(r.URL.Path, "/")
			_, _ = w.Write([]byte(`{"name":"` + name + `"}`))
			return
		}

		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		time.Sleep(latency)
		if flakyPercent > 0 && rand.Intn(100) < flakyPercent {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"The model is overloaded."}}`))
			return
		}
		_, _ = w.Write(generateReply)
	})

	_ = http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux)
}

func monitorResources(pid int, done chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fmt.Println("\n--- Resource Usage (expvar + ps) ---")
	fmt.Printf("%-10s %-10s %-10s %-10s\n", "Time", "Heap(MB)", "Alloc(MB)", "CPU(%)")

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			resp, err := http.Get(debugURL)
			if err != nil {
				continue
			}

			var vars struct {
				MemStats struct {
					HeapInuse uint64 `json:"HeapInuse"`
					Alloc     uint64 `json:"Alloc"`
				} `json:"memstats"`
			}
			err = sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&vars)
			_ = resp.Body.Close()
			if err != nil {
				continue
			}

			cpu := 0.0
			if out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "%cpu").Output(); err == nil {
				lines := strings.Split(strings.TrimSpace(string(out)), "\n")
				if len(lines) >= 2 {
					cpu, _ = strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
				}
			}

			fmt.Printf("%-10s %-10.2f %-10.2f %-10.2f\n",
				time.Now().Format("15:04:05"),
				float64(vars.MemStats.HeapInuse)/1024/1024,
				float64(vars.MemStats.Alloc)/1024/1024,
				cpu,
			)
		}
	}
}

func waitForApp(url string) {
	for i := 0; i < 40; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}

var benchConfig = fmt.Sprintf(`
server:
  port: "%d"
  env: development
  api_keys: ["bench-key-12345"]
gemini:
  provider: google
  api_key: "mock-key"
  base_url: "http://localhost:%d"
  warm_up: true
generation:
  max_attempts: 3
  backoff_base: 10ms
  min_interval: 0s
rate_limit:
  requests_per_second: 100000
  burst: 100000
`, appPort, mockPort)
