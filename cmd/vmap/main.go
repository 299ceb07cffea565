// Package main provides a small demo CLI for the vmap randomness transform.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/vmap/backend/cpu"
	"github.com/born-ml/vmap/rng"
	"github.com/born-ml/vmap/tensor"
	"github.com/born-ml/vmap/vmap"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("vmap %s\n", version)
		return
	}

	env := vmap.NewEnv(cpu.New())

	fmt.Println("Batched random draws, batch size 3:")
	for _, mode := range []vmap.Randomness{vmap.RandomnessSame, vmap.RandomnessDifferent} {
		if _, err := env.Push(3, mode); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		out, err := env.Rand(rng.New(42), tensor.Shape{4}, tensor.Float32)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("  %-9s -> shape %v, batched=%v\n", mode, out.Shape(), out.Batched())
		env.Pop()
	}

	if _, err := env.Push(3, vmap.RandomnessError); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := env.Rand(rng.New(42), tensor.Shape{4}, tensor.Float32); err != nil {
		fmt.Printf("  error     -> %v\n", err)
	}
	env.Pop()
}
