package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/hwlabels/inventory"
	"github.com/ByLCY/hwlabels/layout"
	"github.com/ByLCY/hwlabels/renderer"
	canvasrenderer "github.com/ByLCY/hwlabels/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/hwlabels/renderer/fpdf"
	"github.com/ByLCY/hwlabels/templates"
)

// options 汇总命令行参数；Columns/Rows/Padding 为 nil 表示沿用模板中的取值。
type options struct {
	Template string
	Backend  string
	Debug    string
	Columns  *int
	Rows     *int
	Padding  *float64
}

// summary 是一次成功生成后的统计信息。
type summary struct {
	Records    int
	Pages      int
	CellWidth  float64 // pt
	CellHeight float64 // pt
}

// usageError 表示命令行参数本身有误，需要附带用法说明。
type usageError struct{ error }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute 运行根命令并返回进程退出码；所有诊断信息都写入 stderr。
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "[!] Error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Uso: %s\n", cmd.UseLine())
	}
	return 1
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		opts    options
		verbose bool
		columns int
		rows    int
		padding float64
		logger  *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "hwlabels <input-table> <output.pdf>",
		Short: "Generate printable label sheets from a hardware inventory table",
		Long: `hwlabels reads an inventory table (CSV or XLSX with the columns
codigo, cpu_model, ram_gib, discos) and lays one label per record onto
a fixed grid of cells, producing a multi-page PDF ready to print.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("初始化日志失败: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("columns") {
				opts.Columns = &columns
			}
			if cmd.Flags().Changed("rows") {
				opts.Rows = &rows
			}
			if cmd.Flags().Changed("padding") {
				opts.Padding = &padding
			}
			fmt.Fprintf(stdout, "[*] Leyendo inventario: %s\n", args[0])
			sum, err := run(args[0], args[1], opts, logger)
			if err != nil {
				return err
			}
			printSummary(stdout, args[1], sum)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Template, "template", "t", "", "标签模板文件路径（默认使用内置模板）")
	cmd.Flags().StringVar(&opts.Backend, "backend", "canvas", "PDF 渲染后端：canvas 或 fpdf")
	cmd.Flags().StringVar(&opts.Debug, "debug", "", "分页结果调试 JSON 输出路径")
	cmd.Flags().IntVar(&columns, "columns", layout.DefaultColumns, "每页列数（覆盖模板）")
	cmd.Flags().IntVar(&rows, "rows", layout.DefaultRows, "每页行数（覆盖模板）")
	cmd.Flags().Float64Var(&padding, "padding", layout.DefaultPadding, "标签内边距，单位 pt（覆盖模板）")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	return cmd
}

// run 串联读取、分页与渲染；输出文件仅在整份 PDF 生成后写入。
func run(inputPath, outputPath string, opts options, logger *zap.Logger) (summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	records, err := inventory.ReadAll(inputPath)
	if err != nil {
		return summary{}, err
	}
	logger.Debug("inventory loaded", zap.String("path", inputPath), zap.Int("records", len(records)))

	ast, err := templates.Load(opts.Template)
	if err != nil {
		return summary{}, err
	}
	tpl, grid, meta, err := layout.CompileTemplate(ast)
	if err != nil {
		return summary{}, fmt.Errorf("编译标签模板失败: %w", err)
	}
	grid = applyOverrides(grid, opts)

	sheet, err := layout.Paginate(records, grid)
	if err != nil {
		return summary{}, err
	}
	if sheet.Len() == 0 {
		return summary{}, fmt.Errorf("%w: %s", inventory.ErrEmpty, inputPath)
	}
	logger.Debug("sheet paginated",
		zap.Int("pages", sheet.PageCount()),
		zap.Int("columns", grid.Columns),
		zap.Int("rows", grid.Rows),
		zap.Float64("padding", grid.Padding),
	)

	if opts.Debug != "" {
		if err := writeDebug(sheet, opts.Debug); err != nil {
			return summary{}, err
		}
	}

	r, err := newRenderer(opts.Backend, opts.Template)
	if err != nil {
		return summary{}, err
	}
	pdfBytes, err := r.Render(&layout.Document{Sheet: sheet, Template: tpl, Meta: meta})
	if err != nil {
		return summary{}, fmt.Errorf("渲染 PDF 失败: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary{}, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return summary{}, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	logger.Info("label sheet written",
		zap.String("output", outputPath),
		zap.String("backend", opts.Backend),
		zap.Int("bytes", len(pdfBytes)),
	)

	return summary{
		Records:    sheet.Len(),
		Pages:      sheet.PageCount(),
		CellWidth:  grid.CellWidth(),
		CellHeight: grid.CellHeight(),
	}, nil
}

func applyOverrides(grid layout.GridConfig, opts options) layout.GridConfig {
	if opts.Columns != nil {
		grid.Columns = *opts.Columns
	}
	if opts.Rows != nil {
		grid.Rows = *opts.Rows
	}
	if opts.Padding != nil {
		grid.Padding = *opts.Padding
	}
	return grid
}

// newRenderer 按名称选择渲染后端；模板所在目录作为字体路径的解析根。
func newRenderer(backend, templatePath string) (renderer.Renderer, error) {
	baseDir := ""
	if templatePath != "" {
		baseDir = filepath.Dir(templatePath)
	}
	switch backend {
	case "", "canvas":
		return canvasrenderer.NewRenderer(baseDir), nil
	case "fpdf":
		return fpdfrenderer.NewRenderer(baseDir), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端 %q（可选 canvas、fpdf）", backend)
	}
}

func printSummary(w io.Writer, outputPath string, sum summary) {
	fmt.Fprintf(w, "[+] %d registros encontrados\n", sum.Records)
	fmt.Fprintf(w, "[+] PDF generado: %s\n", outputPath)
	fmt.Fprintf(w, "[+] Páginas: %d  |  Pegatina: %.1fcm x %.1fcm\n",
		sum.Pages, layout.PtToCM(sum.CellWidth), layout.PtToCM(sum.CellHeight))
}

func writeDebug(sheet *layout.Sheet, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(sheet, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
