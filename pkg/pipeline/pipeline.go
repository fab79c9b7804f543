/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/heptiolabs/healthcheck"
	"github.com/netobserv/gopipes/pkg/node"
	"github.com/netobserv/labeltree/pkg/api"
	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/example"
	"github.com/netobserv/labeltree/pkg/pipeline/ingest"
	"github.com/netobserv/labeltree/pkg/pipeline/modelstore"
	"github.com/netobserv/labeltree/pkg/pipeline/write"
	"github.com/netobserv/labeltree/pkg/plt"
	"github.com/netobserv/labeltree/pkg/weights"
	log "github.com/sirupsen/logrus"
)

// Pipeline drives passes over an example source: every example is learned, or predicted in test-only mode.
type Pipeline struct {
	params   config.Parameters
	ingester ingest.Ingester
	writer   write.Writer
	store    *modelstore.Store
	parser   *example.Parser
	model    *plt.Model
	table    *weights.Table
	clock    clock.Clock

	running atomic.Bool
	failed  atomic.Bool
	passes  int
	elapsed time.Duration
}

func getIngester(params *config.Ingest) (ingest.Ingester, error) {
	switch params.Type {
	case api.IngestTypeName("File"):
		return ingest.NewIngestFile(params.File)
	case api.IngestTypeName("Kafka"):
		return ingest.NewIngestKafka(params.Kafka)
	default:
		return nil, fmt.Errorf("`ingest` type %q not defined", params.Type)
	}
}

// NewPipeline builds the model and the stages described by the configuration.
func NewPipeline(ctx context.Context, cfg *config.ConfigFileStruct) (*Pipeline, error) {
	log.Debugf("entering NewPipeline")
	ingester, err := getIngester(&cfg.Parameters.Ingest)
	if err != nil {
		return nil, err
	}
	writer, err := write.NewWriter(cfg.Parameters.Write)
	if err != nil {
		return nil, err
	}
	return newPipeline(ctx, cfg, ingester, writer, clock.New())
}

func newPipeline(ctx context.Context, cfg *config.ConfigFileStruct, ingester ingest.Ingester, writer write.Writer, clk clock.Clock) (*Pipeline, error) {
	p := &Pipeline{
		params:   cfg.Parameters,
		ingester: ingester,
		writer:   writer,
		clock:    clk,
	}
	if p.params.Model != nil {
		store, err := modelstore.NewStore(p.params.Model)
		if err != nil {
			return nil, err
		}
		p.store = store
	}
	model, table, err := buildModel(ctx, &p.params, p.store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model: %w", err)
	}
	p.model, p.table = model, table

	featureBits := int(table.FeatureBits())
	if featureBits > 32 {
		featureBits = 32
	}
	if p.parser, err = example.NewParser(featureBits); err != nil {
		return nil, err
	}
	p.updateTreeGauges()
	log.WithFields(log.Fields{
		"featureBits":   table.FeatureBits(),
		"predictorBits": table.PredictorBits(),
		"mode":          model.Mode(),
		"testOnly":      p.params.Run.TestOnly,
	}).Info("pipeline ready")
	return p, nil
}

func (p *Pipeline) Model() *plt.Model {
	return p.model
}

// Run executes the configured passes, then saves the tree structure and the model and logs the report.
// A cancelled ctx ends the current pass early; what was learned so far is still saved.
func (p *Pipeline) Run(ctx context.Context) error {
	p.running.Store(true)
	defer p.running.Store(false)
	start := p.clock.Now()

	passes := p.params.Run.Passes
	if passes > 1 && !p.ingester.Replayable() {
		log.Warnf("ingest source can't be replayed, running 1 pass instead of %d", passes)
		passes = 1
	}
	for pass := 0; pass < passes && ctx.Err() == nil; pass++ {
		passStart := p.clock.Now()
		count, err := p.runPass(ctx)
		if err != nil {
			p.failed.Store(true)
			return fmt.Errorf("pass %d: %w", pass+1, err)
		}
		if ctx.Err() != nil {
			log.WithField("examples", count).Warn("run interrupted")
			break
		}
		passDuration.Observe(p.clock.Since(passStart).Seconds())
		p.model.EndPass()
		p.passes++
		p.updateTreeGauges()
		log.WithFields(log.Fields{"pass": p.passes, "lines": count, "nodes": p.model.Tree().Size()}).Info("pass done")
	}
	p.elapsed = p.clock.Since(start)

	if err := p.save(context.WithoutCancel(ctx)); err != nil {
		p.failed.Store(true)
		return err
	}
	for _, line := range p.Report() {
		log.Info(line)
	}
	return nil
}

// runPass connects the ingester, the learn/predict stage and the writer, then streams one pass through them.
// The model is only touched by the learn/predict stage. It returns the number of lines read.
func (p *Pipeline) runPass(ctx context.Context) (int, error) {
	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var (
		count                           int
		ingestErr, processErr, writeErr error
	)
	ingestNode := node.AsInit(func(out chan<- string) {
		ingestErr = p.ingester.Ingest(passCtx, out)
	})
	processNode := node.AsMiddle(func(in <-chan string, out chan<- write.Record) {
		for line := range in {
			if processErr != nil {
				continue
			}
			count++
			rec, err := p.process(line, count)
			if err != nil {
				processErr = err
				cancel()
			} else if rec != nil {
				out <- *rec
			}
		}
	})
	writeNode := node.AsTerminal(func(in <-chan write.Record) {
		for rec := range in {
			if writeErr != nil {
				continue
			}
			if err := p.writer.Write(rec); err != nil {
				writeErr = fmt.Errorf("writing prediction of line %d: %w", rec.Example, err)
				cancel()
			}
		}
	})
	ingestNode.SendsTo(processNode)
	processNode.SendsTo(writeNode)
	ingestNode.Start()
	<-writeNode.Done()

	for _, err := range []error{processErr, writeErr, ingestErr} {
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

// process returns the record to write for line, if any.
func (p *Pipeline) process(line string, n int) (*write.Record, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	ex, err := p.parser.Parse(line)
	if err != nil {
		parseErrors.Inc()
		log.Warnf("skipping line %d: %v", n, err)
		return nil, nil
	}
	if p.params.Run.TestOnly {
		return p.predict(ex, n), nil
	}
	return nil, p.learn(ex, n)
}

func (p *Pipeline) learn(ex *example.Example, n int) error {
	visited := p.model.Visited()
	err := p.model.Learn(ex)
	nodesVisited.Add(float64(p.model.Visited() - visited))
	p.updateTreeGauges()
	if err != nil {
		if !errors.Is(err, plt.ErrCapacityExceeded) && !errors.Is(err, plt.ErrInvalidSplitTarget) {
			return err
		}
		growthErrors.Inc()
		if !p.params.Tree.SkipOnGrowthError {
			return fmt.Errorf("line %d: %w", n, err)
		}
		log.Warnf("line %d: %v, learned without the labels left out of the tree", n, err)
	}
	examplesProcessed.WithLabelValues(modeLearn).Inc()
	return nil
}

func (p *Pipeline) predict(ex *example.Example, n int) *write.Record {
	visited := p.model.Visited()
	pred := p.model.Predict(ex)
	nodesVisited.Add(float64(p.model.Visited() - visited))
	examplesProcessed.WithLabelValues(modePredict).Inc()
	if !p.writesPredictions() {
		return nil
	}
	return &write.Record{Example: n, Labels: pred.Labels, TrueLabels: ex.Labels}
}

// writesPredictions: threshold predictions go out with positiveLabels, top-k and greedy ones with topKLabels.
func (p *Pipeline) writesPredictions() bool {
	if p.model.Mode() == plt.ModeThreshold {
		return p.params.Tree.PositiveLabels
	}
	return p.params.Tree.TopKLabels
}

func (p *Pipeline) updateTreeGauges() {
	tree := p.model.Tree()
	treeNodes.Set(float64(tree.Size()))
	treeLeaves.Set(float64(tree.LeafCount()))
	treeSlots.Set(float64(tree.Slots()))
}

func (p *Pipeline) save(ctx context.Context) error {
	tree := p.model.Tree()
	if name := p.params.Tree.SaveTreeStructure; name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := plt.ExportTopology(f, tree); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.WithField("file", name).Info("tree structure saved")
	}
	if p.store != nil && p.params.Model.FinalModel != "" {
		return p.store.Save(ctx, p.params.Model.FinalModel, tree, p.table, p.params.Tree.Resume)
	}
	return nil
}

// Report summarizes the run, one line each.
func (p *Pipeline) Report() []string {
	tree := p.model.Tree()
	lines := []string{fmt.Sprintf("learn_predict_time = %gs", p.elapsed.Seconds())}
	lines = append(lines, p.model.Evaluation().Report()...)
	return append(lines,
		fmt.Sprintf("passes = %d", p.passes),
		fmt.Sprintf("examples learned = %d", p.model.Examples()),
		fmt.Sprintf("examples predicted = %d", p.model.Predictions()),
		fmt.Sprintf("visited nodes = %d", p.model.Visited()),
		fmt.Sprintf("tree_size = %d", tree.Size()),
		fmt.Sprintf("base_predictor_count = %d", tree.Slots()),
	)
}

func (p *Pipeline) IsReady() healthcheck.Check {
	return func() error {
		if !p.running.Load() {
			return fmt.Errorf("pipeline is not running")
		}
		return nil
	}
}

func (p *Pipeline) IsAlive() healthcheck.Check {
	return func() error {
		if p.failed.Load() {
			return fmt.Errorf("pipeline failed")
		}
		return nil
	}
}
