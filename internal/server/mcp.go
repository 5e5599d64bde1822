package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("cursor",
			mcp.WithDescription("Report the pointer position in logical screen units and the main screen size and backing scale"),
		),
		s.toolCursor,
	)

	s.mcp.AddTool(
		mcp.NewTool("move_cursor",
			mcp.WithDescription("Move the pointer to screen coordinates (origin top-left, logical units)"),
			mcp.WithNumber("x", mcp.Description("X coordinate (default: 0)")),
			mcp.WithNumber("y", mcp.Description("Y coordinate (default: 0)")),
		),
		s.toolMoveCursor,
	)

	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Left-click at coordinates, or at the current pointer position when none are given"),
			mcp.WithNumber("x", mcp.Description("Click at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Click at Y coordinate")),
		),
		s.toolClick,
	)

	s.mcp.AddTool(
		mcp.NewTool("paste",
			mcp.WithDescription("Put text on the clipboard and send the paste shortcut to the focused application"),
			mcp.WithString("text", mcp.Description("Text to paste"), mcp.Required()),
		),
		s.toolPaste,
	)

	s.mcp.AddTool(
		mcp.NewTool("press_keys",
			mcp.WithDescription("Press a key combination (e.g. 'cmd+c', 'enter', 'cmd+shift+t')"),
			mcp.WithString("keys", mcp.Description("Keys joined by '+'"), mcp.Required()),
		),
		s.toolPressKeys,
	)

	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the main display as a JPEG image"),
		),
		s.toolScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("execute",
			mcp.WithDescription("Run a command resolved through PATH and return its exit status, stdout and stderr"),
			mcp.WithString("command", mcp.Description("Command name or path"), mcp.Required()),
			mcp.WithArray("args", mcp.Description("Command arguments"), mcp.WithStringItems()),
		),
		s.toolExecute,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_apps",
			mcp.WithDescription("List installed applications with their bundle identifiers"),
		),
		s.toolListApps,
	)

	s.mcp.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription("Launch an application by bundle identifier or display name"),
			mcp.WithString("bundleId", mcp.Description("Bundle identifier (e.g. 'com.apple.Safari')")),
			mcp.WithString("appName", mcp.Description("Display name, matched case-insensitively")),
		),
		s.toolLaunchApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List on-screen windows owned by user processes"),
		),
		s.toolListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("window_info",
			mcp.WithDescription("Export the accessibility tree of a process's first window, or of the focused window when pid is omitted"),
			mcp.WithNumber("pid", mcp.Description("Owner process ID")),
		),
		s.toolWindowInfo,
	)

	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Report the process, application and window that own keyboard focus"),
		),
		s.toolFocus,
	)
}

func textResult(msg string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) toolCursor(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.injector.Cursor())
}

func (s *Server) toolMoveCursor(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	x, _ := numberParam(params, "x")
	y, _ := numberParam(params, "y")
	return textResult(s.moveCursor(x, y))
}

func (s *Server) toolClick(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.click(pointParam(request.GetArguments())))
}

func (s *Server) toolPaste(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var text *string
	if v, ok := request.GetArguments()["text"].(string); ok {
		text = &v
	}
	return textResult(s.paste(ctx, text))
}

func (s *Server) toolPressKeys(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys := stringParam(request.GetArguments(), "keys", "")
	if keys == "" {
		return mcp.NewToolResultError("missing required argument: keys"), nil
	}
	return textResult(s.pressCombo(keys))
}

func (s *Server) toolScreenshot(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.screenshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(data),
				MIMEType: "image/jpeg",
			},
		},
	}, nil
}

func (s *Server) toolExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return jsonResult(s.execute(ctx, stringParam(params, "command", ""), stringsParam(params, "args")))
}

func (s *Server) toolListApps(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.listApps())
}

func (s *Server) toolLaunchApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return textResult(s.launchApp(ctx, stringParam(params, "bundleId", ""), stringParam(params, "appName", "")))
}

func (s *Server) toolListWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.listWindows())
}

func (s *Server) toolWindowInfo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pid *int
	if n, ok := numberParam(request.GetArguments(), "pid"); ok {
		p := int(n)
		pid = &p
	}
	return jsonResult(s.windowTree(pid))
}

func (s *Server) toolFocus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.focus(), nil)
}
