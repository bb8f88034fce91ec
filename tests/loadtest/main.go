package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"topfived/internal/models"
	"topfived/internal/storage"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numLists     = 200
	numGroups    = 10
	numCands     = 5
	numUsers     = 2000
	numDevices   = 100
)

var (
	sorts = []string{"trending", "engagement", "newest", "likes"}
	tags  = []string{"music", "film", "books", "games", "food"}
)

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	refused   int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Topfived Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Lists: %d | Groups: %d x %d | Users: %d | Devices: %d\n\n", numLists, numGroups, numCands, numUsers, numDevices)

	// The server must point at the same database: TOPFIVED_DB_PATH.
	dbPath := os.Getenv("TOPFIVED_DB_PATH")
	if dbPath == "" {
		fmt.Println("FAILED: TOPFIVED_DB_PATH is not set")
		return
	}
	fmt.Print("Seeding database... ")
	if err := seed(dbPath); err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}
	fmt.Println("OK")

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Ranking reads ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doGetLists(rng)
		case r < 0.85:
			return doGetList(rng)
		default:
			return doGet("GET /debates", baseURL+"/debates")
		}
	})

	fmt.Println("\n--- Phase 2: Vote storm (80% POST /vote, 20% GET /group) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.80 {
			return doVote(rng)
		}
		return doGetGroup(rng)
	})

	fmt.Println("\n--- Phase 3: Mixed load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doVote(rng)
		case r < 0.60:
			return doGetLists(rng)
		case r < 0.85:
			return doGetList(rng)
		default:
			return doGetGroup(rng)
		}
	})
}

func seed(dbPath string) error {
	store, err := storage.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))
	now := time.Now().UTC()

	for i := 0; i < numLists; i++ {
		l := &models.RankedList{
			ID:        fmt.Sprintf("list_%d", i),
			Title:     fmt.Sprintf("Top five #%d", i),
			Tags:      []string{tags[rng.Intn(len(tags))], tags[rng.Intn(len(tags))]},
			CreatedAt: now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour),
			Views:     rng.Intn(5000),
			Shares:    rng.Intn(50),
		}
		likes := rng.Intn(60)
		for u := 0; u < likes; u++ {
			l.AddLike(fmt.Sprintf("user_%d", rng.Intn(numUsers)), now.Add(-time.Duration(rng.Intn(14*24))*time.Hour))
		}
		if err := store.SaveList(ctx, l); err != nil {
			return err
		}
	}

	for g := 0; g < numGroups; g++ {
		group := &models.Group{ID: fmt.Sprintf("group_%d", g), Title: fmt.Sprintf("Challenge %d", g), SingleChoice: true}
		for c := 0; c < numCands; c++ {
			group.Candidates = append(group.Candidates, models.VoteCandidate{
				ID:     fmt.Sprintf("group_%d_cand_%d", g, c),
				ListID: fmt.Sprintf("list_%d", rng.Intn(numLists)),
			})
		}
		if err := store.SaveGroup(ctx, group); err != nil {
			return err
		}
	}
	return nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			if r.status == http.StatusConflict || r.status == http.StatusTooManyRequests {
				s.refused++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	fmt.Printf("\n  %-16s %8s %6s %8s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Refused", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		slices.Sort(s.latencies)

		fmt.Printf("  %-16s %8d %6d %8d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, s.refused,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(endpoint, url string) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doGetLists(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/lists?sort=%s", baseURL, sorts[rng.Intn(len(sorts))])
	if rng.Float64() < 0.3 {
		url += "&tag=" + tags[rng.Intn(len(tags))]
	}
	return doGet("GET /lists", url)
}

func doGetList(rng *rand.Rand) result {
	return doGet("GET /list", fmt.Sprintf("%s/list?id=list_%d", baseURL, rng.Intn(numLists)))
}

func doGetGroup(rng *rand.Rand) result {
	return doGet("GET /group", fmt.Sprintf("%s/group?id=group_%d&user=user_%d", baseURL, rng.Intn(numGroups), rng.Intn(numUsers)))
}

// doVote mixes signed-in users with anonymous devices. Refusals (409, 429)
// are expected under contention and are not counted as errors.
func doVote(rng *rand.Rand) result {
	g := rng.Intn(numGroups)
	body := map[string]string{
		"group":     fmt.Sprintf("group_%d", g),
		"candidate": fmt.Sprintf("group_%d_cand_%d", g, rng.Intn(numCands)),
	}
	if rng.Float64() < 0.7 {
		body["user"] = fmt.Sprintf("user_%d", rng.Intn(numUsers))
	} else {
		body["device"] = fmt.Sprintf("device_%d", rng.Intn(numDevices))
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/vote", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /vote", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /vote", resp.StatusCode, lat, resp.StatusCode >= 500}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
