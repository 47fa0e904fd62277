/*
Copyright © 2026 the Shoreline authors.
This file is part of Shoreline.

Shoreline is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Shoreline is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Shoreline.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command shoreline resolves shoreline vertex uncertainties and intersects
// shorelines with transects.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spatialmodel/shoreline/shoreutil"
)

func main() {
	// Settings in a .env file in the working directory become SHORELINE_*
	// environment variables; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "shoreline: reading .env:", err)
		os.Exit(1)
	}

	cfg := shoreutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
