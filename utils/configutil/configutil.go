// Copyright (c) 2024 the Remora authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package configutil loads and validates YAML configuration files.
package configutil

import (
	"fmt"
	"os"

	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// Load deserializes the YAML file at path into config and validates the
// result.
func Load(path string, config interface{}) error {
	if path == "" {
		return fmt.Errorf("no configuration file given")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %s", err)
	}
	if err := yaml.Unmarshal(b, config); err != nil {
		return fmt.Errorf("parse config: %s", err)
	}
	if err := validator.Validate(config); err != nil {
		return fmt.Errorf("validate config: %s", err)
	}
	return nil
}
