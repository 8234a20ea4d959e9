// Command ratelimitdemo is a thin illustration of the ratelimit package. It
// is not part of the module's public API; the engine itself has no
// dependency on this command.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hummn/ratelimit/pkg/ratelimit"
)

func main() {
	algorithm := flag.String("algo", "fixed", "fixed | sliding | token")
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	flag.Parse()

	var algo ratelimit.Algorithm
	switch *algorithm {
	case "fixed":
		algo = ratelimit.FixedWindow(5, 10*time.Second)
	case "sliding":
		algo = ratelimit.SlidingWindow(5, 10*time.Second)
	case "token":
		algo = ratelimit.TokenBucket(1, time.Second, 5)
	default:
		log.Fatalf("unknown algorithm %q", *algorithm)
	}

	lim, err := ratelimit.New(
		ratelimit.WithAlgorithm(algo),
		ratelimit.WithRedisOptions(&redis.Options{Addr: redisAddr}),
		ratelimit.WithPrefix("ratelimitdemo"),
		ratelimit.WithTimeout(200*time.Millisecond),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	id := "demo-" + uuid.NewString()

	for i := 0; i < 7; i++ {
		res, err := lim.Limit(ctx, id, ratelimit.Request{})
		if err != nil {
			log.Fatalf("limit: %v", err)
		}
		fmt.Printf("request %d: success=%v remaining=%d reset=%d reason=%q\n",
			i+1, res.Success, res.Remaining, res.Reset, res.Reason)
	}

	log.Println("blocking until a slot is ready...")
	res, err := lim.BlockUntilReady(ctx, id, 15*time.Second)
	if err != nil {
		log.Fatalf("blockUntilReady: %v", err)
	}
	fmt.Printf("admitted: success=%v remaining=%d\n", res.Success, res.Remaining)
}
