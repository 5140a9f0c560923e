/*
Copyright © 2024 the vader authors.
This file is part of vader.

vader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

vader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with vader.  If not, see <http://www.gnu.org/licenses/>.
*/


package vaderutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	vader "github.com/lo-y-wni/vader-sub001"
	"github.com/lo-y-wni/vader-sub001/fieldio"
	"github.com/sirupsen/logrus"
)

// Log is the logger used by the commands.
var Log logrus.FieldLogger = logrus.StandardLogger()

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// setLogLevel sets the level of the standard logger.
func setLogLevel(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("vader: parsing configuration variable LogLevel: %v", err)
	}
	logrus.SetLevel(l)
	return nil
}

// Run modes.
const (
	modeTL = "tl"
	modeAD = "ad"
)

// AdjointTests creates a random background state of the given size and
// runs the adjoint test for each recipe, and the inverse test for each
// recipe that has an inverse. It returns an error naming every recipe
// whose relative error is larger than tolerance.
func AdjointTests(log logrus.FieldLogger, sc vader.StateConfig, seed int64, tolerance float64, recipes []vader.Linear) error {
	rng := rand.New(rand.NewSource(seed))
	state, err := vader.RandomState(sc, rng)
	if err != nil {
		return err
	}
	template, err := vader.IncrementTemplate(state)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"points": sc.Points,
		"owned":  sc.Owned,
		"levels": sc.Levels,
		"bins":   sc.Bins,
	}).Info("created background state")

	var failed []string
	for _, r := range recipes {
		rlog := log.WithField("recipe", r.Name())
		res, err := vader.AdjointTest(r, state, template, rng)
		if err != nil {
			return err
		}
		rlog = rlog.WithFields(logrus.Fields{
			"<F x, y>":       res.FxY,
			"<x, F* y>":      res.XFty,
			"relative_error": res.RelativeError(),
		})
		if res.RelativeError() > tolerance {
			rlog.Error("adjoint test failed")
			failed = append(failed, r.Name()+" adjoint")
		} else {
			rlog.Info("adjoint test passed")
		}

		inv, ok := r.(vader.Inverse)
		if !ok {
			continue
		}
		e, err := vader.InverseTest(inv, state, template, rng)
		if err != nil {
			return err
		}
		ilog := log.WithFields(logrus.Fields{"recipe": r.Name(), "relative_error": e})
		if e > tolerance {
			ilog.Error("inverse test failed")
			failed = append(failed, r.Name()+" inverse")
		} else {
			ilog.Info("inverse test passed")
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("vader: tests failed with tolerance %g: %s", tolerance, strings.Join(failed, ", "))
	}
	return nil
}

// Run reads the background state and the increments from the given
// netCDF files, applies the tangent-linear operators of recipes in order
// (mode "tl") or their adjoints in reverse order (mode "ad"), and writes
// the result to outputFile.
func Run(log logrus.FieldLogger, mode string, recipes []vader.Linear, stateFile, incrementFile, outputFile string) error {
	state, err := fieldio.ReadFile(stateFile)
	if err != nil {
		return fmt.Errorf("vader: reading state: %w", err)
	}
	inc, err := fieldio.ReadFile(incrementFile)
	if err != nil {
		return fmt.Errorf("vader: reading increments: %w", err)
	}
	log.WithFields(logrus.Fields{
		"state":      stateFile,
		"increments": incrementFile,
		"mode":       mode,
	}).Info("loaded input files")

	apply := func(r vader.Linear) error {
		start := time.Now()
		var err error
		switch mode {
		case modeTL:
			err = r.TL(inc, state)
		case modeAD:
			err = r.AD(inc, state)
		default:
			err = fmt.Errorf("vader: invalid mode %q", mode)
		}
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"recipe":   r.Name(),
			"mode":     mode,
			"duration": time.Since(start),
		}).Debug("applied recipe")
		return nil
	}
	if mode == modeAD {
		for i := len(recipes) - 1; i >= 0; i-- {
			if err = apply(recipes[i]); err != nil {
				return err
			}
		}
	} else {
		for _, r := range recipes {
			if err = apply(r); err != nil {
				return err
			}
		}
	}

	var dirty []string
	for _, n := range inc.Names() {
		if inc.Dirty(n) {
			dirty = append(dirty, n)
		}
	}
	if err = fieldio.WriteFile(outputFile, inc); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output":  outputFile,
		"changed": strings.Join(dirty, ","),
	}).Info("wrote results")
	return nil
}
