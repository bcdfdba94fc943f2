/*
Copyright © 2025 the ncread authors.
This file is part of ncread.

ncread is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncread is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncread.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package comm provides the collective operations a fixed-size group of
// worker ranks needs to run in single-program-multiple-data style:
// barriers, a gather of per-rank results to a root rank, and group-wide
// abort. Ranks run as goroutines sharing one Group; each holds its own
// Comm handle.
//
// There is no dynamic membership and no timeout support: the group size
// is fixed at creation and any rank failure aborts every collective in
// flight.
package comm

import (
	"context"
	"errors"
	"sync"
)

// A Group coordinates a fixed number of ranks.
type Group struct {
	n int

	mu      sync.Mutex
	arrived int
	release chan struct{}
	rows    [][]float64

	abortOnce sync.Once
	done      chan struct{}
	err       error
}

// NewGroup creates a group of n ranks.
func NewGroup(n int) (*Group, error) {
	if n < 1 {
		return nil, errors.New("comm: group size must be at least 1")
	}
	return &Group{
		n:       n,
		release: make(chan struct{}),
		rows:    make([][]float64, n),
		done:    make(chan struct{}),
	}, nil
}

// Size returns the number of ranks in the group.
func (g *Group) Size() int { return g.n }

// Rank returns the communication handle for rank i.
func (g *Group) Rank(i int) *Comm {
	if i < 0 || i >= g.n {
		panic("comm: rank out of range")
	}
	return &Comm{g: g, rank: i}
}

// Abort records err as the group's failure and releases every rank
// blocked in a collective. Only the first call has any effect; the
// group-termination side effect happens exactly once.
func (g *Group) Abort(err error) {
	g.abortOnce.Do(func() {
		g.mu.Lock()
		g.err = err
		g.mu.Unlock()
		close(g.done)
	})
}

// Err returns the error the group was aborted with, or nil if the group
// has not been aborted.
func (g *Group) Err() error {
	select {
	case <-g.done:
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.err
	default:
		return nil
	}
}

// await blocks until all n ranks have arrived, then releases them
// together. It returns early with the abort error if the group is
// aborted, or with ctx.Err() if the context is canceled.
func (g *Group) await(ctx context.Context) error {
	g.mu.Lock()
	select {
	case <-g.done:
		g.mu.Unlock()
		return g.Err()
	default:
	}
	g.arrived++
	ch := g.release
	if g.arrived == g.n {
		g.arrived = 0
		g.release = make(chan struct{})
		g.mu.Unlock()
		close(ch)
		return nil
	}
	g.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-g.done:
		return g.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// A Comm is one rank's handle on the group.
type Comm struct {
	g    *Group
	rank int
}

// Rank returns this rank's id, 0 <= Rank() < Size().
func (c *Comm) Rank() int { return c.rank }

// Size returns the number of ranks in the group.
func (c *Comm) Size() int { return c.g.n }

// Barrier blocks until every rank in the group has called Barrier.
func (c *Comm) Barrier(ctx context.Context) error {
	return c.g.await(ctx)
}

// Gather collects every rank's row at the root rank. Each rank
// contributes exactly its own row, so there are no write-write races by
// construction. The root receives the rows in rank order; every other
// rank receives nil.
func (c *Comm) Gather(ctx context.Context, root int, row []float64) ([][]float64, error) {
	g := c.g
	g.mu.Lock()
	g.rows[c.rank] = append([]float64(nil), row...)
	g.mu.Unlock()
	if err := g.await(ctx); err != nil {
		return nil, err
	}
	if c.rank != root {
		return nil, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([][]float64, g.n)
	copy(out, g.rows)
	return out, nil
}
