package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/config"
	"github.com/Septrum101/cfddns/controller"
)

func main() {
	config.ShowVersion()

	printVersion := flag.Bool("version", false, "show version")
	configPath := flag.String("config", "", "config file, defaults to config.yml in ., /etc/cfddns or $HOME/.cfddns")
	once := flag.Bool("once", false, "run a single pass and exit")
	verify := flag.Bool("verify", false, "verify the api token and exit")
	flag.Parse()
	if *printVersion {
		return
	}

	// init config
	config.SetConfigFile(*configPath)
	getConfig := config.GetConfig()
	c, err := config.Unmarshal(getConfig)
	if err != nil {
		log.Panic(err)
	}

	if *verify {
		if err := verifyToken(c); err != nil {
			log.Fatal(err)
		}
		log.Infoln("api token is valid")
		return
	}

	// start service
	s, err := controller.New(c)
	if err != nil {
		log.Panic(err)
	}

	if *once {
		if err := s.RunOnce(context.Background()); err != nil {
			log.Fatal(err)
		}
		return
	}

	var mu sync.Mutex
	s.Start()

	// hot reload configure
	lastTime := time.Now()
	getConfig.OnConfigChange(func(e fsnotify.Event) {
		if time.Now().After(lastTime.Add(time.Second * 3)) {
			log.Println("Config file changed:", e.Name)
			newConf, err := config.Unmarshal(getConfig)
			if err != nil {
				log.Errorf("reload config failure, keep running with the previous one: %v", err)
				return
			}
			newServer, err := controller.New(newConf)
			if err != nil {
				log.Errorf("reload config failure, keep running with the previous one: %v", err)
				return
			}

			mu.Lock()
			// release server resource
			s.Close()
			s = newServer
			s.Start()
			mu.Unlock()
		}
		lastTime = time.Now()
	})
	getConfig.WatchConfig()

	// Running backend
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	<-osSignals

	mu.Lock()
	s.Close()
	mu.Unlock()
}

func verifyToken(c *config.Config) error {
	cli, err := controller.NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(c.Timeout))
	defer cancel()
	return cli.Verify(ctx)
}
