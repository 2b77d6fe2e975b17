// cmd/tools/catalog-tool/scaffold.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"proposal-engine/pkg/registry"
)

// scaffoldData feeds the worker templates.
type scaffoldData struct {
	PackageName  string
	TaskType     string
	Description  string
	Timeout      string
	InputFields  []scaffoldField
	OutputFields []scaffoldField
	ErrorCodes   []string
	ModulePath   string
	Category     string
}

type scaffoldField struct {
	Name    string
	Type    string
	JSONTag string
	Comment string
}

func newScaffoldCmd(path *string) *cobra.Command {
	var taskType, outDir, modulePath string
	var force bool
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate config, models and handler files for a registered activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			if *path != "" {
				var err error
				if reg, err = registry.LoadRegistry(*path); err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
			}
			activity, ok := reg.Find(taskType)
			if !ok {
				return fmt.Errorf("task type %s is not registered", taskType)
			}
			if outDir == "" {
				outDir = filepath.Join("internal", "workers", activity.Category, activity.TaskType)
			}
			files, err := renderWorker(*activity, modulePath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			names := make([]string, 0, len(files))
			for name := range files {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				target := filepath.Join(outDir, name)
				if _, err := os.Stat(target); err == nil && !force {
					return fmt.Errorf("%s already exists, use --force to overwrite", target)
				}
				if err := os.WriteFile(target, files[name], 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", target)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&taskType, "task-type", "", "registered task type to scaffold")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default internal/workers/<category>/<taskType>)")
	cmd.Flags().StringVar(&modulePath, "module", "proposal-engine", "Go module path used in imports")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	_ = cmd.MarkFlagRequired("task-type")
	return cmd
}

// renderWorker returns gofmt'ed sources keyed by file name.
func renderWorker(a registry.Activity, modulePath string) (map[string][]byte, error) {
	data := scaffoldData{
		PackageName:  strings.ReplaceAll(a.TaskType, "-", ""),
		TaskType:     a.TaskType,
		Description:  a.Description,
		Timeout:      durationLiteral(a.TimeoutDuration(10 * time.Second)),
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
		ErrorCodes:   a.ErrorCodes,
		ModulePath:   modulePath,
		Category:     a.Category,
	}

	out := make(map[string][]byte, 3)
	for name, tmplStr := range map[string]string{
		"config.go":  configTemplate,
		"models.go":  modelsTemplate,
		"handler.go": handlerTemplate,
	} {
		tmpl, err := template.New(name).Parse(tmplStr)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		out[name] = src
	}
	return out, nil
}

func schemaFields(schema map[string]interface{}) []scaffoldField {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]scaffoldField, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		field := scaffoldField{
			Name:    goFieldName(name),
			Type:    goTypeFromJSONType(details["type"]),
			JSONTag: fmt.Sprintf("`json:\"%s\"`", name),
		}
		if desc, ok := details["description"].(string); ok && desc != "" {
			field.Comment = "// " + desc
		}
		fields = append(fields, field)
	}
	return fields
}

func goTypeFromJSONType(jsonType interface{}) string {
	switch t := jsonType.(type) {
	case string:
		switch t {
		case "string":
			return "string"
		case "integer":
			return "int"
		case "number":
			return "float64"
		case "boolean":
			return "bool"
		case "object":
			return "map[string]interface{}"
		case "array":
			return "[]interface{}"
		}
	case []interface{}:
		// ["object", "null"] and friends
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return goTypeFromJSONType(s)
			}
		}
	}
	return "interface{}"
}

func goFieldName(prop string) string {
	if prop == "" {
		return prop
	}
	name := strings.ToUpper(prop[:1]) + prop[1:]
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	if strings.HasSuffix(name, "Ids") {
		name = strings.TrimSuffix(name, "Ids") + "IDs"
	}
	return name
}

func durationLiteral(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

const configTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .Type }} {{ .JSONTag }} {{ .Comment }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .Type }} {{ .JSONTag }} {{ .Comment }}
{{- end }}
}
`

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"

	"{{ .ModulePath }}/internal/common/camunda"
	"{{ .ModulePath }}/internal/common/errors"
	"{{ .ModulePath }}/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

type Handler struct {
	config *Config
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, opts camunda.RunnerOptions) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	opts.Logger = opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	opts.Timeout = config.Timeout

	return &Handler{
		config: config,
		runner: camunda.NewRunner(TaskType, opts),
		logger: opts.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context) (interface{}, error) {
		var input Input
		if err := h.runner.Decode(job, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

{{ if .Description }}// {{ .Description }}
{{ end -}}
{{ if .ErrorCodes }}// Error codes: {{ range $i, $c := .ErrorCodes }}{{ if $i }}, {{ end }}{{ $c }}{{ end }}
{{ end -}}
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, errors.NewInvalidInputError(TaskType + " is not implemented")
}
`
