package homogenize

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/notargets/gohomog/material"
	"github.com/notargets/gohomog/solver"
	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// TwoGridInfo reports the two-grid iteration of one load. Residual is the
// norm of the last update |x_k - x_k-1|.
type TwoGridInfo struct {
	Iterations       int
	Residual         float64
	Converged        bool
	Residuals        []float64
	CoarseIterations int
}

// twoGrid iterates on Fourier coefficients. One step smooths with the fine
// operator BN scaled by 1/alpha, then corrects with the solution of the
// coarse operator Bh on the restricted residual:
//
//	y = x + (b - BN x)/alpha
//	Bh z = hGh R(b - BN y)
//	x = y + E z
type twoGrid struct {
	Nbar, Nhbar utils.Shape
	BN, Bh      *spectral.LinOper
	hGh         *spectral.MatField
	conf        TwoGridConfig
	log         logrus.FieldLogger
}

func (d *driver) newTwoGrid(variant material.Variant, hGN, AN *spectral.MatField, conf TwoGridConfig) (tg *twoGrid, err error) {
	var (
		sc    = d.pb.Solve
		Nh    = d.N.Half()
		Nhbar = sc.Discretization.Nbar(Nh)
		hGh   *spectral.MatField
		Ah    *spectral.MatField
	)
	if hGh, err = d.kernel(Nh, Nhbar, variant); err != nil {
		return
	}
	if Ah, err = d.coefficients(sc.Discretization, Nh, variant, sc.Order, sc.P); err != nil {
		return nil, errors.Wrapf(err, "coarse grid %v", Nh)
	}
	if conf.Alpha == 0 {
		conf.Alpha = maxCoefficient(AN)
	}
	tg = &twoGrid{
		Nbar:  d.Nbar,
		Nhbar: Nhbar,
		BN: spectral.NewLinOper("BN", hGN, spectral.NewDFT("FN", d.Nbar, false), AN,
			spectral.NewDFT("FiN", d.Nbar, true)),
		Bh: spectral.NewLinOper("Bh", hGh, spectral.NewDFT("FNh", Nhbar, false), Ah,
			spectral.NewDFT("FiNh", Nhbar, true)),
		hGh:  hGh,
		conf: conf,
		log:  d.log.WithFields(logrus.Fields{"primaldual": variant, "Nh": Nh, "alpha": conf.Alpha}),
	}
	return
}

// solve takes and returns real space fields, the iteration itself runs on
// the Fourier coefficients
func (tg *twoGrid) solve(FN, FiN *spectral.DFT, B *spectral.VecField, sconf solver.Config) (X *spectral.VecField, info TwoGridInfo, err error) {
	var (
		b, x, y, r, rh, z *spectral.VecField
		stats             solver.Stats
		coarse            = solver.Config{Kind: solver.CG, TolRel: sconf.TolRel, MaxIter: sconf.MaxIter}
		z0                = spectral.NewVecField("z0", B.D(), tg.Nhbar, spectral.Fourier)
	)
	if b, err = FN.Apply(B); err != nil {
		return
	}
	x = spectral.NewVecField("x", B.D(), tg.Nbar, spectral.Fourier)
	for info.Iterations < tg.conf.MaxIter {
		info.Iterations++
		if r, err = tg.residual(b, x); err != nil {
			return
		}
		y = x.Copy()
		if err = y.Axpy(1/tg.conf.Alpha, r); err != nil {
			return
		}
		if r, err = tg.residual(b, y); err != nil {
			return
		}
		if rh, err = r.Restrict(tg.Nhbar); err != nil {
			return
		}
		// the coarse Nyquist modes are outside the range of Bh
		if rh, err = tg.hGh.Apply(rh); err != nil {
			return
		}
		if z, stats, err = solver.Solve(tg.Bh, rh, z0, coarse, nil); err != nil {
			return
		}
		info.CoarseIterations += stats.Iterations
		if z, err = z.Enlarge(tg.Nbar); err != nil {
			return
		}
		xPrev := x
		if x, err = y.Add(z); err != nil {
			return
		}
		var dx *spectral.VecField
		if dx, err = x.Sub(xPrev); err != nil {
			return
		}
		info.Residual = dx.Norm()
		info.Residuals = append(info.Residuals, info.Residual)
		tg.log.WithFields(logrus.Fields{"iteration": info.Iterations, "residual": info.Residual}).Debug("two-grid")
		if info.Residual <= tg.conf.Tol {
			info.Converged = true
			break
		}
	}
	if !info.Converged {
		tg.log.WithField("residual", info.Residual).Warn("two-grid iteration did not converge")
	}
	X, err = FiN.Apply(x)
	return
}

func (tg *twoGrid) residual(b, x *spectral.VecField) (r *spectral.VecField, err error) {
	var Bx *spectral.VecField
	if Bx, err = tg.BN.Apply(x); err != nil {
		return
	}
	return b.Sub(Bx)
}
