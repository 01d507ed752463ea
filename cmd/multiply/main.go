// multiply builds a single learned-scale layer and applies it to a tensor
// given on the command line:
//
//	multiply -alpha=2 -x=1,2,3,4 -shape=2,2
//
// It prints y_pred. Without -alpha the parameter takes its random initial value.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/fumitoshi0524/ixeoriNet/multiply/nn"
	"github.com/fumitoshi0524/ixeoriNet/multiply/params"
	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

var (
	flagAlpha = flag.Float64("alpha", math.NaN(), "Initial value of alpha. Random in [-0.1, 0.1) if not set.")
	flagX     = flag.String("x", "1,2,3", "Comma separated input values.")
	flagShape = flag.String("shape", "", "Comma separated input shape. Empty means a vector of all values, \"-\" a scalar.")
	flagDType = flag.String("dtype", "float32", "Input dtype: float16, float32 or float64.")
	flagScope = flag.String("scope", "model", "Parameter scope for the layer.")
	flagSeed  = flag.Int64("seed", 0, "Random seed for initialization, 0 keeps the time based seed.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagSeed != 0 {
		tensor.Seed(*flagSeed)
	}
	values := must.M1(parseFloats(*flagX))
	shape := must.M1(parseShape(*flagShape, len(values)))
	dtype := must.M1(tensor.ParseDType(*flagDType))
	x := must.M1(tensor.NewOf(dtype, values, shape...))

	store := params.NewStore()
	scope := must.M1(store.Root().In(*flagScope))
	var init params.Initializer
	if !math.IsNaN(*flagAlpha) {
		init = params.Constant(*flagAlpha)
	}
	layer := must.M1(nn.NewMultiplyIn(scope, init))
	klog.Infof("model has %s parameters (%s)", humanize.Comma(int64(store.NumParameters())), humanize.Bytes(uint64(store.Memory())))

	out, err := layer.Apply(nn.NamedTensorMap{nn.MultiplyInput: x})
	if err != nil {
		klog.Errorf("apply %s: %+v", layer.Alpha(), err)
		os.Exit(1)
	}
	alpha := must.M1(layer.Alpha().Value())
	fmt.Printf("%s = %g\n", layer.Alpha(), alpha)
	fmt.Printf("%s = %s\n", nn.MultiplyOutput, out[nn.MultiplyOutput])
}

func parseFloats(s string) ([]float64, error) {
	var values []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing value %q", field)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.New("no input values given")
	}
	return values, nil
}

func parseShape(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return []int{n}, nil
	case "-":
		return nil, nil
	}
	var shape []int
	for _, field := range strings.Split(s, ",") {
		dim, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing dimension %q", field)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}
