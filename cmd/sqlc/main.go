// sqlc генерирует пакеты sql/ рядом с каждым query.sql:
// общий .sqlc.base.yaml размножается в конфиг на каждый файл запросов.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const generatedConfigName = "sqlc.yaml"

type base struct {
	version string
	sources []string
	schema  string
	engine  *viper.Viper
}

func loadBase(path string) (*base, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read base config")
	}

	sources := v.GetStringSlice("sql.0.source")
	if len(sources) == 0 {
		return nil, errors.New("has no sql.0.source in config")
	}
	engine := v.Sub("sql.0")
	if engine == nil {
		return nil, errors.New("has no sql.0 section in config")
	}
	return &base{
		version: v.GetString("version"),
		sources: sources,
		schema:  v.GetString("sql.0.schema"),
		engine:  engine,
	}, nil
}

func (b *base) queryFiles() ([]string, error) {
	files := make([]string, 0)
	for _, pattern := range b.sources {
		f, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "glob %s", pattern)
		}
		files = append(files, f...)
	}
	sort.Strings(files)
	return files, nil
}

// render собирает конфиг sqlc для одного query.sql: пакет и каталог
// вывода берутся из пути файла (.../<repo>/sql/query.sql -> package sql).
func (b *base) render(file string) ([]byte, error) {
	dir := filepath.Dir(file)

	b.engine.Set("schema", b.schema)
	b.engine.Set("queries", file)
	b.engine.Set("gen.go.package", filepath.Base(dir))
	b.engine.Set("gen.go.out", dir)

	settings := b.engine.AllSettings()
	delete(settings, "source")

	out := viper.New()
	out.Set("version", b.version)
	out.Set("sql", []interface{}{settings})

	bs, err := yaml.Marshal(out.AllSettings())
	if err != nil {
		return nil, errors.Wrap(err, "marshal config to yaml")
	}
	return bs, nil
}

func generate(config []byte) error {
	_ = os.Remove(generatedConfigName)
	if err := os.WriteFile(generatedConfigName, config, 0o644); err != nil {
		return errors.Wrap(err, "write sqlc.yaml")
	}
	defer os.Remove(generatedConfigName)

	cmd := exec.Command("sqlc", "generate", "--file", generatedConfigName)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("call sqlc: %s", string(output)))
	}
	return nil
}

func main() {
	basePath := flag.String("base", ".sqlc.base.yaml", "base sqlc config")
	dryRun := flag.Bool("dry-run", false, "print generated configs instead of calling sqlc")
	flag.Parse()

	b, err := loadBase(*basePath)
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	files, err := b.queryFiles()
	if err != nil {
		panic(err)
	}

	for _, file := range files {
		config, err := b.render(file)
		if err != nil {
			panic(fmt.Errorf("can't generate result config: %w", err))
		}
		if *dryRun {
			fmt.Printf("# %s\n%s\n", file, config)
			continue
		}
		if err := generate(config); err != nil {
			panic(err)
		}
		fmt.Printf("%s file complete\n", file)
	}
	fmt.Println("done")
}
