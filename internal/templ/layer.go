package templ

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/ffnn/internal/actf"
)

// layer is one fixed-shape dense layer. All storage is sized in newLayer;
// buffers of derivative orders disabled in the static configuration have
// zero length and the matching kernels are nil.
type layer struct {
	nin, nout int
	netNIn    int
	netNOut   int
	fn        actf.Function

	beta []float64 // [nout*(nin+1)], unit by unit, [bias, w_1..w_nin]
	feed []float64 // [nout]
	out  []float64 // [nout]
	ad1  []float64 // [nout] f' at feed, with D1 or VD1
	ad2  []float64 // [nout] f'' at feed, with D2

	d1  []float64 // [nout*netNIn] d out_u / d x_k at u*netNIn+k
	d2  []float64 // [nout*netNIn]
	vd1 []float64 // [netNOut*nout] d y_o / d feed_u at o*nout+u

	f1, f2 []float64 // [netNIn] per-unit feed derivatives, scratch

	forwardD1  func(l *layer, in *layer)
	forwardD12 func(l *layer, in *layer)
}

func newLayer(nin, nout, netNIn, netNOut int, fn actf.Function, dconf DerivConfig, first bool) *layer {
	l := &layer{
		nin:     nin,
		nout:    nout,
		netNIn:  netNIn,
		netNOut: netNOut,
		fn:      fn,
		beta:    make([]float64, nout*(nin+1)),
		feed:    make([]float64, nout),
		out:     make([]float64, nout),
		ad1:     make([]float64, sizeIf(dconf.D1 || dconf.VD1, nout)),
		ad2:     make([]float64, sizeIf(dconf.D2, nout)),
		d1:      make([]float64, sizeIf(dconf.D1, nout*netNIn)),
		d2:      make([]float64, sizeIf(dconf.D2, nout*netNIn)),
		vd1:     make([]float64, sizeIf(dconf.VD1, netNOut*nout)),
		f1:      make([]float64, sizeIf(dconf.D1 && !first, netNIn)),
		f2:      make([]float64, sizeIf(dconf.D2 && !first, netNIn)),
	}
	if dconf.D1 {
		l.forwardD1 = (*layer).forwardD1Layer
		if first {
			l.forwardD1 = (*layer).forwardD1Input
		}
	}
	if dconf.D2 {
		l.forwardD12 = (*layer).forwardD12Layer
		if first {
			l.forwardD12 = (*layer).forwardD12Input
		}
	}
	return l
}

func sizeIf(enabled bool, n int) int {
	if enabled {
		return n
	}
	return 0
}

func (l *layer) nbeta() int { return len(l.beta) }

// unitBeta returns [bias, w_1..w_nin] of unit u.
func (l *layer) unitBeta(u int) []float64 {
	return l.beta[u*(l.nin+1) : (u+1)*(l.nin+1)]
}

// forwardValues computes feed, output and the activation derivatives the
// enabled orders need.
func (l *layer) forwardValues(input []float64, flagAD1, flagAD2 bool) {
	for u := 0; u < l.nout; u++ {
		b := l.unitBeta(u)
		l.feed[u] = b[0] + floats.Dot(b[1:], input)
	}
	for u, x := range l.feed {
		v, a1, a2 := actf.Eval(l.fn, x, flagAD1, flagAD2)
		l.out[u] = v
		if flagAD1 {
			l.ad1[u] = a1
		}
		if flagAD2 {
			l.ad2[u] = a2
		}
	}
}

// forwardD1Input seeds d1 on a layer fed by the network input, whose own
// first derivative is the identity.
func (l *layer) forwardD1Input(*layer) {
	for u := 0; u < l.nout; u++ {
		w := l.unitBeta(u)[1:]
		floats.ScaleTo(l.d1[u*l.netNIn:(u+1)*l.netNIn], l.ad1[u], w)
	}
}

// forwardD12Input seeds d1 and d2 on a layer fed by the network input.
// The input has no second derivative, so d2 is the second activation
// derivative times w².
func (l *layer) forwardD12Input(*layer) {
	for u := 0; u < l.nout; u++ {
		w := l.unitBeta(u)[1:]
		d1 := l.d1[u*l.netNIn : (u+1)*l.netNIn]
		d2 := l.d2[u*l.netNIn : (u+1)*l.netNIn]
		for k, wk := range w {
			d1[k] = l.ad1[u] * wk
			d2[k] = l.ad2[u] * wk * wk
		}
	}
}

func (l *layer) forwardD1Layer(in *layer) {
	for u := 0; u < l.nout; u++ {
		w := l.unitBeta(u)[1:]
		l.accumulate(l.f1, w, in.d1)
		floats.ScaleTo(l.d1[u*l.netNIn:(u+1)*l.netNIn], l.ad1[u], l.f1)
	}
}

func (l *layer) forwardD12Layer(in *layer) {
	for u := 0; u < l.nout; u++ {
		w := l.unitBeta(u)[1:]
		l.accumulate(l.f1, w, in.d1)
		l.accumulate(l.f2, w, in.d2)
		d1 := l.d1[u*l.netNIn : (u+1)*l.netNIn]
		d2 := l.d2[u*l.netNIn : (u+1)*l.netNIn]
		for k := range d1 {
			d1[k] = l.ad1[u] * l.f1[k]
			d2[k] = l.ad1[u]*l.f2[k] + l.ad2[u]*l.f1[k]*l.f1[k]
		}
	}
}

// accumulate sets dst = Σ_j w_j src[j*netNIn : (j+1)*netNIn].
func (l *layer) accumulate(dst, w, src []float64) {
	for k := range dst {
		dst[k] = 0
	}
	for j, wj := range w {
		floats.AddScaled(dst, wj, src[j*l.netNIn:(j+1)*l.netNIn])
	}
}

// backwardOutput seeds vd1 on the output layer: d y_o / d feed_u is f' on
// the diagonal and zero elsewhere.
func (l *layer) backwardOutput() {
	for i := range l.vd1 {
		l.vd1[i] = 0
	}
	for o := 0; o < l.netNOut; o++ {
		l.vd1[o*l.nout+o] = l.ad1[o]
	}
}

// backwardLayer accumulates vd1 through the weights of the next layer:
// d y_o / d feed_u = f'_u Σ_v d y_o / d feed_v · w_vu.
func (l *layer) backwardLayer(next *layer) {
	for o := 0; o < l.netNOut; o++ {
		vd1 := l.vd1[o*l.nout : (o+1)*l.nout]
		nextVD1 := next.vd1[o*next.nout : (o+1)*next.nout]
		for u := range vd1 {
			var s float64
			for v, g := range nextVD1 {
				s += g * next.beta[v*(next.nin+1)+1+u]
			}
			vd1[u] = l.ad1[u] * s
		}
	}
}

// storeGradient writes d y_o / d β of this layer into grad, the block of
// output o starting at the layer's beta offset: the outer product of vd1
// with [1, input].
func (l *layer) storeGradient(grad []float64, o int, input []float64) {
	for u := 0; u < l.nout; u++ {
		g := l.vd1[o*l.nout+u]
		dst := grad[u*(l.nin+1) : (u+1)*(l.nin+1)]
		dst[0] = g
		floats.ScaleTo(dst[1:], g, input)
	}
}
