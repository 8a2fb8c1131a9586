package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将一组卡片布局输出为 JSON，便于调试或可视化。
func WriteDebugJSON(layouts []*CardLayout, path string) error {
	if len(layouts) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(layouts, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化布局失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
