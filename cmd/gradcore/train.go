package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"

	"k8s.io/klog/v2"

	"github.com/born-ml/gradcore/autodiff"
	"github.com/born-ml/gradcore/data"
	"github.com/born-ml/gradcore/nn"
	"github.com/born-ml/gradcore/optim"
	"github.com/born-ml/gradcore/serialization"
	"github.com/born-ml/gradcore/tensor"
)

type trainConfig struct {
	hidden   int
	epochs   int
	batch    int
	lr       float64
	opt      string
	seed     int64
	logEvery int
	save     string
}

func runTrain(args []string) error {
	var cfg trainConfig
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.IntVar(&cfg.hidden, "hidden", 8, "hidden layer width")
	fs.IntVar(&cfg.epochs, "epochs", 2000, "number of passes over the dataset")
	fs.IntVar(&cfg.batch, "batch", 4, "mini-batch size")
	fs.Float64Var(&cfg.lr, "lr", 0.05, "learning rate")
	fs.StringVar(&cfg.opt, "opt", "adam", "optimizer: sgd or adam")
	fs.Int64Var(&cfg.seed, "seed", 1, "weight initialization seed")
	fs.IntVar(&cfg.logEvery, "log-every", 200, "log the loss every N epochs")
	fs.StringVar(&cfg.save, "save", "", "write trained parameters to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, err := train(cfg)
	return err
}

// xorDataset returns the four XOR samples and their targets.
func xorDataset() (*tensor.RawTensor, *tensor.RawTensor, error) {
	x, err := tensor.FromSlice([]float32{0, 0, 0, 1, 1, 0, 1, 1}, tensor.Shape{4, 2})
	if err != nil {
		return nil, nil, err
	}
	y, err := tensor.FromSlice([]float32{0, 1, 1, 0}, tensor.Shape{4, 1})
	if err != nil {
		x.Free()
		return nil, nil, err
	}
	return x, y, nil
}

func newOptimizer(name string, params []*autodiff.Node, lr float32) (optim.Optimizer, error) {
	switch name {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: lr, Momentum: 0.9}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: lr}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}

// train fits Linear-Tanh-Linear to XOR and returns the last epoch's mean
// loss.
func train(cfg trainConfig) (float64, error) {
	rng := rand.New(rand.NewSource(cfg.seed))
	linearCfg := nn.LinearConfig{Bias: true, Init: nn.InitXavier, Rand: rng}
	l1, err := nn.NewLinear(2, cfg.hidden, linearCfg)
	if err != nil {
		return 0, err
	}
	l2, err := nn.NewLinear(cfg.hidden, 1, linearCfg)
	if err != nil {
		l1.Free()
		return 0, err
	}
	model := nn.NewSequential(l1, nn.NewTanh(), l2)
	defer model.Free()

	opt, err := newOptimizer(cfg.opt, model.Parameters(), float32(cfg.lr))
	if err != nil {
		return 0, err
	}

	x, y, err := xorDataset()
	if err != nil {
		return 0, err
	}
	defer x.Free()
	defer y.Free()

	loader, err := data.NewLoader(x, y, data.LoaderConfig{BatchSize: cfg.batch})
	if err != nil {
		return 0, err
	}

	ctx := autodiff.NewContext(nil)
	klog.InfoS("Training", "optimizer", cfg.opt, "hidden", cfg.hidden, "epochs", cfg.epochs, "lr", cfg.lr)

	var epochLoss float64
	for epoch := 1; epoch <= cfg.epochs; epoch++ {
		loader.Reset()
		epochLoss = 0
		for {
			batch, err := loader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return 0, err
			}
			loss, err := step(ctx, model, opt, batch)
			if err != nil {
				return 0, fmt.Errorf("epoch %d: %w", epoch, err)
			}
			epochLoss += loss * float64(batch.Size)
		}
		epochLoss /= float64(loader.Len())
		if cfg.logEvery > 0 && (epoch%cfg.logEvery == 0 || epoch == cfg.epochs) {
			klog.InfoS("Epoch", "epoch", epoch, "loss", epochLoss)
		}
	}

	if cfg.save != "" {
		if err := serialization.Save(cfg.save, model); err != nil {
			return 0, err
		}
		klog.InfoS("Saved model", "path", cfg.save, "params", len(model.Parameters()))
	}
	return epochLoss, nil
}

// step runs forward, loss, backward and one optimizer update on batch.
// The batch views are released before returning.
func step(ctx *autodiff.Context, model nn.Module, opt optim.Optimizer, batch data.Batch) (float64, error) {
	in := autodiff.NewLeaf(batch.Data)
	defer in.Free()
	target := autodiff.NewLeaf(batch.Labels)
	defer target.Free()

	out, err := model.Forward(ctx, in)
	if err != nil {
		return 0, err
	}
	defer out.Free()

	loss, grad, err := nn.MSELoss(ctx, out, target)
	if err != nil {
		return 0, err
	}
	defer grad.Free()

	dx, err := model.Backward(grad)
	if err != nil {
		return 0, err
	}
	dx.Free()

	return loss, opt.Step()
}
