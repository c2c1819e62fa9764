package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"github.com/plus3/estore/ecs"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Maximum int32
}

type Label string

type Tags struct {
	Values []string
}

type world struct {
	storage  *ecs.Storage
	position ecs.ComponentId
	velocity ecs.ComponentId
	health   ecs.ComponentId
	label    ecs.ComponentId
	tags     ecs.ComponentId
}

func newWorld() *world {
	registry := ecs.NewComponentRegistry()
	w := &world{}

	var err error
	if w.position, err = ecs.RegisterComponent[Position](registry, "position"); err != nil {
		log.Fatalf("register position: %v", err)
	}
	if w.velocity, err = ecs.RegisterComponent[Velocity](registry, "velocity"); err != nil {
		log.Fatalf("register velocity: %v", err)
	}
	if w.health, err = ecs.RegisterComponent[Health](registry, "health"); err != nil {
		log.Fatalf("register health: %v", err)
	}
	if w.label, err = ecs.RegisterComponent[Label](registry, "label"); err != nil {
		log.Fatalf("register label: %v", err)
	}
	if w.tags, err = ecs.RegisterComponent[Tags](registry, "tags"); err != nil {
		log.Fatalf("register tags: %v", err)
	}

	w.storage = ecs.NewStorage(registry)
	return w
}

// spawn creates an entity with position and velocity, plus a random
// sprinkling of the remaining components.
func (w *world) spawn(rng *rand.Rand) ecs.Entity {
	en := w.storage.NewEntity()
	must(ecs.Set(w.storage, en, w.position, Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000}))
	must(ecs.Set(w.storage, en, w.velocity, Velocity{DX: rng.Float32()*20 - 10, DY: rng.Float32()*20 - 10}))
	if rng.Intn(2) == 0 {
		must(ecs.Set(w.storage, en, w.health, Health{Current: 100, Maximum: 100}))
	}
	if rng.Intn(4) == 0 {
		must(ecs.Set(w.storage, en, w.label, Label(fmt.Sprintf("entity-%d", en))))
	}
	if rng.Intn(8) == 0 {
		must(ecs.Set(w.storage, en, w.tags, Tags{Values: []string{"stress", "spawned"}}))
	}
	return en
}

// update runs one frame: the movement pass plus a structural churn pass
// that exercises set, remove, clone and delete under iteration.
func (w *world) update(dt float32, frame int64, rng *rand.Rand) {
	err := ecs.ForEach2(w.storage, w.position, w.velocity, func(h ecs.Handle, pos ecs.Ref[Position], vel ecs.Ref[Velocity]) {
		v := vel.Get()
		pos.Update(func(p Position) Position {
			p.X += v.DX * dt
			p.Y += v.DY * dt
			return p
		})
	})
	if err != nil {
		log.Fatalf("movement pass: %v", err)
	}

	// Decay health every frame, deleting the dead mid-iteration.
	err = ecs.ForEach(w.storage, w.health, func(h ecs.Handle, hp ecs.Ref[Health]) {
		cur := hp.Get()
		cur.Current--
		if cur.Current <= 0 {
			w.storage.Delete(h.Entity())
			return
		}
		hp.Set(cur)
	})
	if err != nil {
		log.Fatalf("health pass: %v", err)
	}

	// Periodic churn: buffered structural changes against random entities.
	if frame%16 == 0 {
		cmds := ecs.NewCommands()
		for h := range w.storage.All() {
			switch rng.Intn(32) {
			case 0:
				cmds.Delete(h.Entity())
			case 1:
				cmds.Set(h.Entity(), w.health, Health{Current: int32(rng.Intn(100)) + 1, Maximum: 100})
			case 2:
				if h.Has(w.label) {
					cmds.RemoveComponent(h.Entity(), w.label)
				}
			case 3:
				src := h.Entity()
				cmds.Defer(func() {
					if _, err := w.storage.Clone(src); err != nil {
						log.Printf("clone %d: %v", src, err)
					}
				})
			}
		}
		if err := cmds.Flush(w.storage); err != nil {
			log.Fatalf("churn flush: %v", err)
		}
	}

	// Dirty sweep: consume dirty flags the way a sync layer would.
	if frame%4 == 0 {
		for h := range w.storage.All() {
			if h.DirtyAndClear() {
				_ = w.storage.Checksum(h)
			}
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	profileMode := flag.String("profile", "", "Enable profiling: cpu or mem.")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	log.Println("Starting store stress test...")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	w := newWorld()

	log.Printf("Populating storage with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		w.spawn(rng)
	}
	log.Println("Population complete.")

	report := &Report{
		Duration:   *duration,
		Entities:   *entityCount,
		Components: w.storage.Registry().ComponentCount(),
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			w.update(float32(deltaTime)/float32(time.Second), totalUpdates, rng)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	stats := w.storage.CollectStats()
	report.FinalEntities = stats.EntityCount
	report.FinalBytes = stats.TotalBytes
	report.FinalBoxes = stats.LiveBoxes

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
