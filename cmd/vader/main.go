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


// Command vader is a command-line interface for the vader variable changes.
package main

import (
	"os"

	"github.com/lo-y-wni/vader-sub001/vaderutil"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := vaderutil.Root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
