package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// decodeStream consumes a chunked response body frame by frame and
// assembles the call result. Content and reasoning deltas are handed to
// the handlers in arrival order, from this goroutine, as each frame is
// read. Tool-call entries arrive whole per frame; partial argument
// fragments are not merged across frames. Usage overwrites the running
// counters, so the last frame carrying it wins.
func decodeStream(ctx context.Context, body io.Reader, handlers output.StreamHandlers, logger output.LoggerPort) (*entity.CallResult, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	result := &entity.CallResult{}
	var content, reasoning strings.Builder

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stream canceled: %w", ctx.Err())
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if data == doneSentinel {
			break
		}

		var frame streamFrame
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			logger.Warn("Skipping malformed stream frame", "error", err, "frame", truncate(data, 200))
			continue
		}

		if frame.Usage != nil {
			result.InputTokens = frame.Usage.InputTokens
			result.OutputTokens = frame.Usage.OutputTokens
		}
		if len(frame.Choices) == 0 {
			continue
		}
		delta := frame.Choices[0].Delta

		if delta.Content != "" {
			content.WriteString(delta.Content)
			if handlers.OnContent != nil {
				handlers.OnContent(delta.Content)
			}
		}
		if delta.ReasoningContent != "" {
			reasoning.WriteString(delta.ReasoningContent)
			if handlers.OnReasoning != nil {
				handlers.OnReasoning(delta.ReasoningContent)
			}
		}
		for _, tc := range delta.ToolCalls {
			id := tc.ID
			if id == "" {
				id = "call_" + uuid.NewString()
			}
			result.ToolCalls = append(result.ToolCalls,
				entity.NewToolCall(id, tc.Function.Name, tc.Function.Arguments))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	result.Content = content.String()
	result.ReasoningContent = reasoning.String()
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
