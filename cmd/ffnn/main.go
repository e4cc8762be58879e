// Package main provides the ffnn CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/ffnn/actf"
	"github.com/born-ml/ffnn/ffnn"
	"github.com/born-ml/ffnn/templ"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("ffnn: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printBanner()
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Printf("ffnn %s\n", version)
		return nil
	case "actf":
		return runActf()
	case "eval":
		return runEval(args[1:])
	case "bench":
		return runBench(args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func printBanner() {
	fmt.Println("ffnn - feed-forward neural networks with exact derivatives")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  actf       List activation functions")
	fmt.Println("  eval       Evaluate a randomly initialized or saved network")
	fmt.Println("  bench      Time propagation per activation and derivative set")
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: ffnn <version|actf|eval|bench> [flags]", msg)
}

func runActf() error {
	fmt.Printf("%-6s %10s %10s %10s %10s\n", "code", "in mu", "in sigma", "out mu", "out sigma")
	for _, code := range actf.Codes() {
		fn, err := actf.Lookup(code)
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %10.4f %10.4f %10.4f %10.4f\n", code,
			fn.IdealInputMu(), fn.IdealInputSigma(), fn.OutputMu(), fn.OutputSigma())
	}
	return nil
}

// netFlags are the architecture flags shared by eval and bench.
type netFlags struct {
	nInput  *int
	hidden  *string
	nOutput *int
	actf    *string
	outActf *string
	seed    *int64
}

func addNetFlags(fs *flag.FlagSet, hidden string) netFlags {
	return netFlags{
		nInput:  fs.Int("in", 4, "number of inputs"),
		hidden:  fs.String("hidden", hidden, "comma separated hidden layer sizes"),
		nOutput: fs.Int("out", 1, "number of outputs"),
		actf:    fs.String("actf", "lgs", "hidden activation code"),
		outActf: fs.String("out-actf", "id_", "output activation code"),
		seed:    fs.Int64("seed", 1, "weight initialization seed"),
	}
}

func (nf netFlags) build(dconf ffnn.DerivConfig) (*ffnn.Network, error) {
	hidden, err := parseInts(*nf.hidden)
	if err != nil {
		return nil, fmt.Errorf("hidden: %w", err)
	}
	if len(hidden) == 0 {
		return nil, errors.New("hidden: at least one hidden layer is required")
	}
	hiddenActf, err := actf.Lookup(*nf.actf)
	if err != nil {
		return nil, err
	}
	outActf, err := actf.Lookup(*nf.outActf)
	if err != nil {
		return nil, err
	}

	net, err := ffnn.NewNetwork(*nf.nInput, hidden[0], *nf.nOutput)
	if err != nil {
		return nil, err
	}
	for _, size := range hidden[1:] {
		if err := net.PushHiddenLayer(size); err != nil {
			return nil, err
		}
	}
	net.SetGlobalActivationFunctions(hiddenActf)
	net.OutputLayer().SetActivationFunction(outActf)
	net.ConnectAndAddSubstrates(dconf)
	if err := net.InitBetas(rand.New(rand.NewSource(*nf.seed))); err != nil {
		return nil, err
	}
	return net, nil
}

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	nf := addNetFlags(fs, "9")
	xFlag := fs.String("x", "", "comma separated input, zeros if empty")
	derivFlag := fs.String("deriv", "d1,d2,vd1", "derivatives: d1,d2,vd1,c1,c2")
	engine := fs.String("engine", "ffnn", "engine: ffnn|templ")
	loadPath := fs.String("load", "", "load the network from a .ffnn file instead of building one")
	savePath := fs.String("save", "", "save the network to a .ffnn file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dconf, err := parseDerivs(*derivFlag)
	if err != nil {
		return err
	}
	var net *ffnn.Network
	if *loadPath != "" {
		if net, _, err = ffnn.Load(*loadPath); err != nil {
			return err
		}
		net.AddSubstrates(dconf)
		dconf = net.Substrates()
	} else if net, err = nf.build(dconf); err != nil {
		return err
	}
	if *savePath != "" {
		if err := ffnn.Save(*savePath, net, map[string]string{"command": "eval"}); err != nil {
			return err
		}
	}
	x := make([]float64, net.NInput())
	if *xFlag != "" {
		if x, err = parseFloats(*xFlag); err != nil {
			return fmt.Errorf("x: %w", err)
		}
	}

	fmt.Println(net)
	fmt.Println()

	switch *engine {
	case "ffnn":
		return evalFlexible(net, x)
	case "templ":
		return evalFixed(net, x, dconf)
	default:
		return fmt.Errorf("unknown engine: %s", *engine)
	}
}

func evalFlexible(net *ffnn.Network, x []float64) error {
	out, err := net.Evaluate(x)
	if err != nil {
		return err
	}
	for i, y := range out {
		fmt.Printf("y[%d] = %.12g\n", i, y)
		if net.HasFirstDerivativeSubstrate() {
			d1, _ := net.FirstDerivatives(i, nil)
			fmt.Printf("  d1   = %s\n", formatFloats(d1))
		}
		if net.HasSecondDerivativeSubstrate() {
			d2, _ := net.SecondDerivatives(i, nil)
			fmt.Printf("  d2   = %s\n", formatFloats(d2))
		}
		if net.HasVariationalFirstDerivativeSubstrate() {
			vd1, _ := net.VariationalFirstDerivatives(i, nil)
			fmt.Printf("  |vd1| = %.12g (%d parameters)\n", floats.Norm(vd1, 2), len(vd1))
		}
		if net.HasCrossFirstDerivativeSubstrate() {
			if c1, _ := net.CrossFirstDerivatives(i); c1 != nil {
				fmt.Printf("  |c1| = %.12g\n", floats.Norm(c1.RawMatrix().Data, 2))
			}
		}
		if net.HasCrossSecondDerivativeSubstrate() {
			if c2, _ := net.CrossSecondDerivatives(i); c2 != nil {
				fmt.Printf("  |c2| = %.12g\n", floats.Norm(c2.RawMatrix().Data, 2))
			}
		}
	}
	return nil
}

// evalFixed copies the architecture and weights of net into a fixed-shape
// network and evaluates that instead.
func evalFixed(net *ffnn.Network, x []float64, dconf ffnn.DerivConfig) error {
	cfg, err := fixedConfig(net, dconf)
	if err != nil {
		return err
	}
	tn, err := templ.New(cfg)
	if err != nil {
		return err
	}
	if err := tn.SetBetas(net.Betas(nil)); err != nil {
		return err
	}
	if err := tn.Propagate(x, templ.All); err != nil {
		return err
	}

	nin, nbeta := tn.NInput(), tn.NBeta()
	for i, y := range tn.Output() {
		fmt.Printf("y[%d] = %.12g\n", i, y)
		if cfg.Deriv.D1 || cfg.Deriv.D2 {
			fmt.Printf("  d1   = %s\n", formatFloats(tn.D1()[i*nin:(i+1)*nin]))
		}
		if cfg.Deriv.D2 {
			fmt.Printf("  d2   = %s\n", formatFloats(tn.D2()[i*nin:(i+1)*nin]))
		}
		if cfg.Deriv.VD1 {
			vd1 := tn.VD1()[i*nbeta : (i+1)*nbeta]
			fmt.Printf("  |vd1| = %.12g (%d parameters)\n", floats.Norm(vd1, 2), len(vd1))
		}
	}
	return nil
}

// errNotFixedShape reports a network the fixed-shape engine cannot represent.
var errNotFixedShape = errors.New("network not representable by the templ engine")

// fixedConfig maps net onto a templ configuration. The fixed-shape engine
// has one activation per layer, no unit shift or scale, and treats every
// beta as a variational parameter; anything else is rejected.
func fixedConfig(net *ffnn.Network, dconf ffnn.DerivConfig) (templ.Config, error) {
	if start := net.VariationalStartLayer(); start > 1 {
		return templ.Config{}, fmt.Errorf("%w: variational parameters start at layer %d", errNotFixedShape, start)
	}
	for ui := 0; ui < net.NInput(); ui++ {
		u := net.InputLayer().Unit(ui).(*ffnn.InputUnit)
		if u.Shift() != 0 || u.Scale() != 1 {
			return templ.Config{}, fmt.Errorf("%w: input %d has shift or scale", errNotFixedShape, ui)
		}
	}

	cfg := templ.Config{
		NInput: net.NInput(),
		Deriv:  templ.DerivConfig{D1: dconf.D1, D2: dconf.D2, VD1: dconf.VD1},
	}
	for li := 1; li < net.NLayers(); li++ {
		l := net.Layer(li)
		fn := l.Unit(0).(*ffnn.NNUnit).ActivationFunction()
		for ui := 0; ui < l.Size(); ui++ {
			u := l.Unit(ui).(*ffnn.NNUnit)
			if u.Shift() != 0 || u.Scale() != 1 {
				return templ.Config{}, fmt.Errorf("%w: layer %d unit %d has shift or scale", errNotFixedShape, li, ui)
			}
			if code := u.ActivationFunction().IDCode(); code != fn.IDCode() {
				return templ.Config{}, fmt.Errorf("%w: layer %d mixes activations %s and %s", errNotFixedShape, li, fn.IDCode(), code)
			}
		}
		cfg.Layers = append(cfg.Layers, templ.LayerConfig{NOut: l.Size(), Actf: fn})
	}
	return cfg, nil
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	nf := addNetFlags(fs, "9,5")
	neval := fs.Int("n", 1000, "propagations per measurement")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*nf.seed))
	xs := make([][]float64, *neval)
	for i := range xs {
		xs[i] = make([]float64, *nf.nInput)
		for j := range xs[i] {
			xs[i][j] = rng.NormFloat64()
		}
	}

	steps := []struct {
		label string
		dconf ffnn.DerivConfig
	}{
		{"f", ffnn.DerivConfig{}},
		{"f+d1", ffnn.DerivConfig{D1: true}},
		{"f+d1+d2", ffnn.DerivConfig{D1: true, D2: true}},
		{"f+d1+d2+vd1", ffnn.DerivConfig{D1: true, D2: true, VD1: true}},
		{"all", ffnn.DerivConfig{D1: true, D2: true, VD1: true, C1D: true, C2D: true}},
	}
	for _, code := range actf.Codes() {
		*nf.actf = code
		fmt.Printf("%s:\n", code)
		for _, step := range steps {
			net, err := nf.build(step.dconf)
			if err != nil {
				return err
			}
			start := time.Now()
			for _, x := range xs {
				if err := net.SetInput(x); err != nil {
					return err
				}
				if err := net.FFPropagate(); err != nil {
					return err
				}
			}
			perEval := time.Since(start) / time.Duration(max(*neval, 1))
			fmt.Printf("  %-12s %v\n", step.label, perEval)
		}
	}
	return nil
}

func parseDerivs(s string) (ffnn.DerivConfig, error) {
	var cfg ffnn.DerivConfig
	for _, name := range splitList(s) {
		switch name {
		case "d1":
			cfg.D1 = true
		case "d2":
			cfg.D2 = true
		case "vd1":
			cfg.VD1 = true
		case "c1":
			cfg.C1D = true
		case "c2":
			cfg.C2D = true
		default:
			return cfg, fmt.Errorf("unknown derivative %q", name)
		}
	}
	return cfg, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range splitList(s) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range splitList(s) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 8, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
