// NearHub 客户端核心交互测试入口
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/luoxbin/nearhub-desktop/core/auth"
	"github.com/luoxbin/nearhub-desktop/core/cache"
	"github.com/luoxbin/nearhub-desktop/core/config"
	"github.com/luoxbin/nearhub-desktop/core/eventbus"
	"github.com/luoxbin/nearhub-desktop/core/httpclient"
	"github.com/luoxbin/nearhub-desktop/core/model"
	"github.com/luoxbin/nearhub-desktop/core/nearhub"
	"github.com/luoxbin/nearhub-desktop/core/store"
)

type logger struct{ debug bool }

func (l logger) Debugf(f string, a ...any) {
	if l.debug {
		fmt.Printf("[DEBUG] "+f+"\n", a...)
	}
}
func (l logger) Errorf(f string, a ...any) { fmt.Printf("[ERROR] "+f+"\n", a...) }

func main() {
	// .env 缺失时忽略
	godotenv.Load()

	cfg, err := config.Load(os.Getenv("NEARHUB_CONFIG"))
	if err != nil {
		fmt.Println("配置加载失败:", err)
		return
	}
	log := logger{debug: strings.EqualFold(cfg.LogLevel, "debug")}

	tokenPath := cfg.TokenFile
	if tokenPath == "" {
		tokenPath, err = store.DefaultTokenPath()
		if err != nil {
			fmt.Println("无法确定令牌路径:", err)
			return
		}
	}
	tokenStore, err := store.NewFileTokenStore(tokenPath)
	if err != nil {
		fmt.Println("令牌存储初始化失败:", err)
		return
	}
	tokens := auth.NewTokenHolder(tokenStore, auth.WithTokenLogger(log))
	if tokens.LoadFromStore() != "" {
		fmt.Println("已加载落盘令牌，尝试自动登录")
	}

	bus := eventbus.New(eventbus.WithLogger(log))
	responseCache := cache.New()
	bus.SubscribeLogout(func(e eventbus.LogoutEvent) {
		responseCache.InvalidateAll()
		fmt.Printf("<< 已登出 原因=%s 状态=%d 路径=%s\n", e.Reason, e.Status, e.Path)
	})
	bus.SubscribeLogin(func(e eventbus.LoginEvent) {
		if e.User != nil {
			fmt.Printf("<< 已登录: %s\n", e.User.Name)
		}
	})
	bus.SubscribeUIReload(func() {
		fmt.Println("<< 服务端要求整体刷新")
	})

	httpClient := httpclient.NewClient(
		httpclient.WithLogger(log),
		httpclient.WithRateLimiter(httpclient.NewHostLimiter(cfg.RateQPS, cfg.RateBurst)),
		httpclient.WithMiddlewares(
			httpclient.WithUserAgent(nearhub.UserAgent),
			httpclient.WithRequestID(),
		),
	)
	client := nearhub.NewClient(tokens,
		nearhub.WithHTTPClient(httpClient),
		nearhub.WithLogger(log),
		nearhub.WithBaseURL(cfg.BaseURL),
		nearhub.WithPlatform(nearhub.Platform(cfg.Platform)),
		nearhub.WithCache(responseCache),
		nearhub.WithBus(bus),
		nearhub.WithTimeout(cfg.Timeout()),
		nearhub.WithDefaultTTL(cfg.CacheTTL()),
	)
	defer tokens.Sync()

	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()
	fmt.Println("=== NearHub 客户端核心测试 ===")
	printHelp()

	for {
		fmt.Print("> ")
		line := strings.TrimSpace(readLine(reader))
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "login":
			doLogin(ctx, client, reader)
		case "me":
			profile, err := client.Me(ctx)
			if err != nil {
				fmt.Println("获取资料失败:", err)
				continue
			}
			fmt.Printf("我: %s (%s) 可见=%v\n", profile.Name, profile.Email, profile.Visible)
		case "nearby":
			doNearby(ctx, client, fields[1:])
		case "like":
			if len(fields) < 2 {
				fmt.Println("用法: like <用户ID>")
				continue
			}
			if err := client.LikeUser(ctx, fields[1]); err != nil {
				fmt.Println("点赞失败:", err)
			}
		case "chats":
			convs, err := client.Conversations(ctx)
			if err != nil {
				fmt.Println("获取会话失败:", err)
				continue
			}
			for _, conv := range convs {
				fmt.Printf("[%s] %s: %s (未读 %d)\n", conv.ID, conv.Peer.Name, conv.LastMessage, conv.UnreadCount)
			}
		case "refresh":
			if _, err := client.Refresh(ctx); err != nil {
				fmt.Println("刷新失败:", err)
			} else {
				fmt.Println("刷新成功")
			}
		case "foreground":
			client.OnAppForeground()
			fmt.Println("已清空缓存（模拟回前台）")
		case "logout":
			client.Logout(ctx)
		case "help":
			printHelp()
		case "quit", "exit":
			return
		default:
			fmt.Println("未知命令:", fields[0])
		}
	}
}

func doLogin(ctx context.Context, client *nearhub.Client, reader *bufio.Reader) {
	email := os.Getenv("NEARHUB_EMAIL")
	password := os.Getenv("NEARHUB_PASSWORD")
	if email == "" {
		fmt.Print("邮箱: ")
		email = strings.TrimSpace(readLine(reader))
	}
	if password == "" {
		fmt.Print("密码: ")
		password = strings.TrimSpace(readLine(reader))
	}
	user, err := client.Login(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		if ae, ok := nearhub.IsAPIError(err); ok {
			fmt.Printf("登录失败: %d %s\n", ae.Status, ae.Message)
		} else {
			fmt.Println("登录失败:", err)
		}
		return
	}
	if user != nil {
		fmt.Println("欢迎,", user.Name)
	}
}

func doNearby(ctx context.Context, client *nearhub.Client, args []string) {
	loc := model.Location{Lat: 31.2304, Lon: 121.4737}
	if len(args) >= 2 {
		if lat, err := strconv.ParseFloat(args[0], 64); err == nil {
			loc.Lat = lat
		}
		if lon, err := strconv.ParseFloat(args[1], 64); err == nil {
			loc.Lon = lon
		}
	}
	started := time.Now()
	users, err := client.NearbyUsers(ctx, loc, 5000)
	if err != nil {
		fmt.Println("查询失败:", err)
		return
	}
	fmt.Printf("附近 %d 人（耗时 %v，30s 内重复查询走缓存）\n", len(users), time.Since(started))
	for _, u := range users {
		fmt.Printf("  %s 距离 %.0fm\n", u.Name, u.DistanceM)
	}
}

func printHelp() {
	fmt.Println("命令: login | me | nearby [lat lon] | like <id> | chats | refresh | foreground | logout | quit")
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return line
}
