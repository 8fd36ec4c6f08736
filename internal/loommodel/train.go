package loommodel

import (
	"context"
	"errors"
	"fmt"

	"github.com/openfluke/loom/nn"

	"deepfold-core/dataset"
)

// TrainOptions control Train.
type TrainOptions struct {
	Epochs       int
	LearningRate float64
	// Progress, when set, is called after every epoch.
	Progress func(epoch int, loss float64)
}

// Train fits the network to the balanced 1D dataset. Targets are one-hot
// over (unpaired, paired).
func (m *Model) Train(ctx context.Context, set *dataset.Set, o TrainOptions) error {
	if set == nil || set.Len() == 0 {
		return errors.New("empty training set")
	}
	epochs := o.Epochs
	if epochs <= 0 {
		epochs = 1
	}
	lr := o.LearningRate
	if lr <= 0 {
		lr = 0.01
	}
	tensors, labels := set.Tensors(), set.Labels()
	batches := make([]nn.TrainingBatch, len(tensors))
	for i, t := range tensors {
		if err := m.check(i, t); err != nil {
			s := set.Samples[i]
			return fmt.Errorf("%s:%d: %w", s.File, s.Pos, err)
		}
		target := []float32{1, 0}
		if labels[i] == 1 {
			target = []float32{0, 1}
		}
		batches[i] = nn.TrainingBatch{Input: t.Data, Target: target}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for e := 1; e <= epochs; e++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.net.Train(batches, &nn.TrainingConfig{Epochs: 1, LearningRate: float32(lr), LossType: "mse"})
		if o.Progress != nil {
			o.Progress(e, m.loss(batches))
		}
	}
	return nil
}

// loss is the mean squared error over the training batches.
func (m *Model) loss(batches []nn.TrainingBatch) float64 {
	var sum float64
	for _, b := range batches {
		out, _ := m.net.ForwardCPU(b.Input)
		for k := 0; k < Classes && k < len(out); k++ {
			d := float64(out[k] - b.Target[k])
			sum += d * d
		}
	}
	return sum / float64(len(batches)*Classes)
}
