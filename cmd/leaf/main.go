// Command leaf reads Leaf interchange documents from stdin, expands each
// grammar, draws it when asked to, and writes the results in input order.
//
// Run with -h for the rule syntax and the turtle's symbols.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"

	"github.com/pkg/errors"
	leaf "github.com/sadiwali/Leaf"
	"github.com/sadiwali/Leaf/geometry"
	"github.com/sadiwali/Leaf/interchange"
	"github.com/sadiwali/Leaf/interchange/lsif"
	"github.com/sadiwali/Leaf/turtle"
)

const usage = `Usage: leaf < documents.lsif.yml

Reads a stream of YAML documents, writes each expanded string on stdout and
diagnostics on stderr.

Rules:
  a=ab         replace a with ab
  a=           delete a
  x<a=b        replace a preceded by x
  a>y=b        replace a followed by y
  x<a>y=b      replace a between x and y
  a(.3)=b=c    replace a with b with probability .3, with c otherwise
  a(.3)=b      replace a with b with probability .3, keep nothing otherwise

Turtle symbols:
  ^  pitch up
  /  pitch down
  -  turn left
  +  turn right
  _  move without drawing
  [  save the turtle
  ]  restore the last saved turtle
  %s symbols are reserved for rules and can't be drawn
  anything else moves forward and draws a voxel, a line, or its bound geometry

Environment:
  LEAF_WORKERS         documents processed in parallel (default 1)
  LEAF_QUEUE_SIZE      pending documents (default 5)
  LEAF_MAX_LENGTH      longest generation allowed (default 1000000)
  LEAF_STACK_CAPACITY  deepest branch nesting (default 500)
  LEAF_PRIMITIVES      also write every drawn primitive (default false)
`

func printUsage(w io.Writer) {
	fmt.Fprintf(w, usage, turtle.RuleOnly)
}

func main() {
	flag.Usage = func() { printUsage(flag.CommandLine.Output()) }
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error while loading configuration: %v\n", err)
	}

	if err := listen(os.Stdout, os.Stdin, os.Stderr, cfg); err != nil {
		log.Fatalf("%v\n", err)
	}
}

func listen(w io.Writer, r io.Reader, ew io.Writer, cfg Config) error {
	in, out := buildPipeline(cfg)

	// Signal that the pipeline is empty
	closed := make(chan error, 1)
	go func() {
		var writeErr error
		for o := range out {
			if writeErr == nil {
				writeErr = report(w, ew, o, cfg.Primitives)
			}
		}
		closed <- writeErr
	}()

	var decodeErr error
	lsifDecoder := lsif.NewDecoder(r)
	for seq := 0; ; seq++ {
		format, err := lsifDecoder.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			decodeErr = errors.Wrap(err, "Error while decoding lsif")
			break
		}

		doc, err := format.Import()
		in <- &order{seq: seq, doc: doc, err: errors.Wrap(err, "Error while importing format")}
	}
	close(in)

	if err := <-closed; err != nil {
		return err
	}
	return decodeErr
}

// report writes a processed order: diagnostics on ew, results on w.
func report(w io.Writer, ew io.Writer, o *order, primitives bool) error {
	fmt.Fprintf(ew, "Sequence %d read\n", o.seq)
	for _, warning := range o.doc.Warnings {
		fmt.Fprintf(ew, "Sequence %d warning: %v\n", o.seq, warning)
	}
	if o.err != nil {
		fmt.Fprintf(ew, "Sequence %d failed: %v\n", o.seq, o.err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s\n", o.out); err != nil {
		return errors.Wrap(err, "Error in writing to out")
	}
	if o.doc.Turtle == nil {
		return nil
	}

	fmt.Fprintf(ew, "Sequence %d drew %d %s primitives\n", o.seq, len(o.shapes), o.doc.Turtle.Mode)
	if !primitives {
		return nil
	}
	for _, s := range o.shapes {
		if _, err := fmt.Fprintf(w, "%v\n", s); err != nil {
			return errors.Wrap(err, "Error in writing to out")
		}
	}
	return nil
}

func buildPipeline(cfg Config) (in chan<- *order, out <-chan *order) {
	sequencerQueue := make(chan *order, cfg.QueueSize)
	outQueue := make(chan *order, cfg.QueueSize)
	orderOutQueues := make([]<-chan *order, cfg.Workers)

	for i := range orderOutQueues {
		q := make(chan *order)
		go run(sequencerQueue, q, cfg)
		orderOutQueues[i] = q
	}
	go resolve(orderOutQueues, outQueue)

	return sequencerQueue, outQueue
}

type order struct {
	seq int
	doc interchange.Document

	out    string
	shapes []geometry.Shape
	err    error
}

func run(orderInQueue <-chan *order, orderOutQueue chan<- *order, cfg Config) {
	for o := range orderInQueue {
		if o.err == nil {
			o.out, o.shapes, o.err = process(context.Background(), o.doc, cfg)
		}
		orderOutQueue <- o
	}
	close(orderOutQueue)
}

// process expands a document, and draws it if it has a turtle.
func process(ctx context.Context, doc interchange.Document, cfg Config) (string, []geometry.Shape, error) {
	parameters := doc.Parameters
	if parameters.MaxLength == 0 {
		parameters.MaxLength = cfg.MaxLength
	}

	ls := leaf.New(parameters)
	if err := ls.DerivateUntil(ctx, doc.Cycles); err != nil {
		return "", nil, err
	}
	out := ls.Export()

	if doc.Turtle == nil {
		return out, nil, nil
	}

	tc := *doc.Turtle
	if tc.StackCapacity == 0 {
		tc.StackCapacity = cfg.StackCapacity
	}
	res, err := turtle.FromConfig(geometry.MeshKernel{}, tc).Interpret(out, tc.Start())
	if err != nil {
		return "", nil, err
	}
	return out, res.Shapes, nil
}

// resolve resolves the outputs of the workers to their correct sequence
//
// The idea is: we read one per queue, if it is the next in the sequence,
// it is outputted. If it is in advance, that queue's spot in the buffer is taken,
// as such it won't be considered for select on the next iteration. Every worker
// outputs in increasing sequence, so the one holding the next order always has
// an empty spot.
func resolve(orderOutQueues []<-chan *order, outQueue chan<- *order) {
	seq := -1

	buffer := make([]*order, len(orderOutQueues))

	// The mask marks an order out queue as being closed, so that they are disregarded for
	// queue selection
	mask := make([]bool, len(orderOutQueues))

	// Function to empty the buffer if possible
	var checkBuffer func()
	checkBuffer = func() {
		for i, buffered := range buffer {
			if buffered != nil && buffered.seq == seq+1 {
				outQueue <- buffered
				seq++

				buffer[i] = nil
				checkBuffer()
				return
			}
		}
	}

	// Create one SelectCase per orderOutQueues
	selectCases := make([]reflect.SelectCase, len(orderOutQueues))
	for i, ooq := range orderOutQueues {
		selectCases[i] = reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(ooq),
		}
	}

	// Channel case subselection, and map of subselected channel index to order queue index
	subSelectCases := make([]reflect.SelectCase, 0, len(orderOutQueues))
	subSelectCaseToOrderQueueIndex := make([]int, 0, len(orderOutQueues))

	for {
		// If every channel is masked, empty buffer, close output channel & return
		allMasked := true
		for _, masked := range mask {
			if !masked {
				allMasked = false
			}
		}
		if allMasked {
			checkBuffer()
			close(outQueue)
			return
		}

		// Reslice the subSelectCases
		subSelectCases = subSelectCases[:0]
		subSelectCaseToOrderQueueIndex = subSelectCaseToOrderQueueIndex[:0]
		for i, sq := range selectCases {
			// Skip the ones already used
			if buffer[i] == nil && !mask[i] {
				subSelectCases = append(subSelectCases, sq)
				subSelectCaseToOrderQueueIndex = append(subSelectCaseToOrderQueueIndex, i)
			}
		}

		if len(subSelectCases) == 0 {
			panic("No cases produced, are the sequence number really incremental ?")
		}

		chosen, recv, ok := reflect.Select(subSelectCases)
		orderQueueIndex := subSelectCaseToOrderQueueIndex[chosen]
		if !ok {
			// Mask worker for case selection (shutdown procedure: finish all buffered work and stop)
			mask[orderQueueIndex] = true
			checkBuffer()
			continue
		}
		o, ok := recv.Interface().(*order)
		if !ok {
			panic("This should not happen: non-*order type received")
		}

		// If sequence number is the next one, send it over and increment sequence number
		// and empty the buffer if possible. If not, put it in the buffer.
		if o.seq == seq+1 {
			outQueue <- o
			seq++

			checkBuffer()
		} else {
			buffer[orderQueueIndex] = o
		}
	}
}
