package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/anyquote/compose"
	"github.com/ByLCY/anyquote/dsl"
	"github.com/ByLCY/anyquote/layout"
	"github.com/ByLCY/anyquote/renderer"
	canvasrenderer "github.com/ByLCY/anyquote/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.quote", "DSL 文件路径")
	output := flag.String("out", "output/demo.png", "输出路径，扩展名决定格式（.pdf 或 .png）")
	debug := flag.String("debug", "", "排版调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	scale := flag.Float64("scale", 1, "PNG 输出倍率")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()
	layout.SetLogger(logger.Sugar())

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			logger.Fatal("解析 data JSON 失败", zap.Error(err))
		}
	}

	format, err := canvasrenderer.ParseFormat(*output)
	if err != nil {
		logger.Fatal("无法确定输出格式", zap.String("out", *output), zap.Error(err))
	}
	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Format: format,
		Scale:  *scale,
	})
	if err := run(*input, *output, *debug, inputData, r); err != nil {
		logger.Fatal("生成卡片失败", zap.Error(err))
	}
	logger.Info("已生成卡片", zap.String("out", *output), zap.String("format", string(format)))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run 串联解析、排版与渲染。
func run(inputPath, outputPath, debugPath string, data any, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	card, err := compose.Build(doc, compose.Options{
		BaseDir: filepath.Dir(inputPath),
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(card, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(card)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(card *compose.Card, debugPath string) error {
	snap, err := card.Snapshot()
	if err != nil {
		return fmt.Errorf("生成调试快照失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(snap, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
