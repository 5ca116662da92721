package batchgcd

import (
	"github.com/go-errors/errors"
	"github.com/ncw/gmp"
)

// The shard protocol. The driver and each worker exchange one message at a
// time over a dedicated channel pair:
//
//	driver -> worker: productTreeMsg{moduli}     (phase 1)
//	worker -> driver: productTreeDone{top}
//	driver -> worker: remainderTreeMsg{head}     (phase 2)
//	worker -> driver: remainderTreeDone{gcds}
//
// Anything else on the wire is a protocol violation and aborts the audit.
type message interface{}

type productTreeMsg struct {
	moduli []*gmp.Int
}

type productTreeDone struct {
	top *gmp.Int
}

type remainderTreeMsg struct {
	head *gmp.Int
}

type remainderTreeDone struct {
	gcds []*gmp.Int
}

type workerFailed struct {
	err error
}

type shardWorker struct {
	in  chan message
	out chan message
}

func startWorker() *shardWorker {
	w := &shardWorker{
		in:  make(chan message),
		out: make(chan message, 1),
	}
	go w.run()
	return w
}

func (w *shardWorker) run() {
	var moduli []*gmp.Int
	var tree *ProductTree

	for msg := range w.in {
		switch m := msg.(type) {
		case productTreeMsg:
			t, err := NewProductTree(m.moduli)
			if err != nil {
				w.out <- workerFailed{err: err}
				return
			}
			moduli, tree = m.moduli, t
			w.out <- productTreeDone{top: t.Root()}
		case remainderTreeMsg:
			if tree == nil {
				w.out <- workerFailed{err: errors.New("remainder tree requested before product tree")}
				return
			}
			w.out <- remainderTreeDone{gcds: leafGCDs(moduli, tree, m.head)}
		default:
			w.out <- workerFailed{err: errors.Errorf("unexpected message %T", msg)}
			return
		}
	}
}

// runSharded partitions the moduli into k contiguous shards, runs the
// two-phase protocol against k workers and returns the per-index gcds in
// global index order.
//
// The splice is exact: the head tree over the k partition roots is the top
// log2(k) levels of the monolithic tree, so its leaf remainders are exactly
// the values a single-worker remainder tree would carry into each partition.
func runSharded(moduli []*gmp.Int, k int) ([]*gmp.Int, error) {
	n := len(moduli)
	if k <= 0 || k&(k-1) != 0 {
		return nil, errors.Errorf("worker count %d is not a power of two", k)
	}
	if k > n || n%k != 0 {
		return nil, errors.Errorf("worker count %d does not divide modulus count %d", k, n)
	}
	s := n / k

	workers := make([]*shardWorker, k)
	for i := range workers {
		workers[i] = startWorker()
	}
	defer func() {
		for _, w := range workers {
			close(w.in)
		}
	}()

	// Phase 1: local product trees.
	for i, w := range workers {
		w.in <- productTreeMsg{moduli: moduli[i*s : (i+1)*s]}
	}
	roots := make([]*gmp.Int, k)
	for i, w := range workers {
		switch reply := (<-w.out).(type) {
		case productTreeDone:
			roots[i] = reply.top
		case workerFailed:
			return nil, errors.WrapPrefix(reply.err, "worker", 0)
		default:
			return nil, errors.Errorf("unexpected reply %T in phase 1", reply)
		}
	}

	// Head splice: remainders of the overall product modulo each squared root.
	headTree, err := NewProductTree(roots)
	if err != nil {
		return nil, err
	}
	heads := headTree.Remainders(headTree.Root())

	// Phase 2: finish the remainder trees locally.
	for i, w := range workers {
		w.in <- remainderTreeMsg{head: heads[i]}
	}
	gcds := make([]*gmp.Int, 0, n)
	for _, w := range workers {
		switch reply := (<-w.out).(type) {
		case remainderTreeDone:
			if len(reply.gcds) != s {
				return nil, errors.Errorf("worker returned %d gcds, want %d", len(reply.gcds), s)
			}
			gcds = append(gcds, reply.gcds...)
		case workerFailed:
			return nil, errors.WrapPrefix(reply.err, "worker", 0)
		default:
			return nil, errors.Errorf("unexpected reply %T in phase 2", reply)
		}
	}
	return gcds, nil
}
