package router

import "github.com/berth-dev/playback/internal/conversation"

// Canned reply texts.
const (
	ReplyPipeline       = "正在为您执行任务流水线："
	ReplyAudience       = "已为您圈选出目标人群，共计 1,245 人。请确认抽样结果："
	ReplyMissingAccount = "由于未指定发送账号，请问您想用哪个企微账号执行私聊推送？"
	ReplyAcknowledge    = "已收到您的指令，正在为您处理..."

	ConfirmText     = "确认，继续后续任务"
	ReplyGenerating = "收到确认，正在为您生成营销内容..."
	ReplyPushing    = "内容生成完毕，正在执行私聊推送..."
	ReplyFinished   = "所有任务已执行完毕！共计推送 1,245 人，预计 5 分钟内发送完成。您可以在【推送任务】中查看进度。"

	RejectText  = "不对，重新调整"
	ReplyAdjust = "好的，请告诉我需要如何调整圈选条件？例如：“排除已经购买过的客户”"
)

// AudienceTotal is the size of the canned audience.
const AudienceTotal = 1245

const (
	taskSelect  = "圈人群包"
	taskContent = "内容生成"
	taskPush    = "私聊推送"
)

func pipelineTasks(selectDone bool) []conversation.Task {
	first := conversation.ProcessingTask("t1", taskSelect, 50)
	if selectDone {
		first = conversation.DoneTask("t1", taskSelect)
	}
	return []conversation.Task{
		first,
		conversation.PendingTask("t2", taskContent),
		conversation.PendingTask("t3", taskPush),
	}
}

func audienceSamples() []conversation.AudienceSample {
	return []conversation.AudienceSample{
		{ID: "c1", Name: "张女士", AvatarRef: "https://picsum.photos/seed/c1/100/100", Tags: []string{"高意向", "近期活跃"}, Reason: "近3天咨询过三居室且未下单"},
		{ID: "c2", Name: "李先生", AvatarRef: "https://picsum.photos/seed/c2/100/100", Tags: []string{"沉睡唤醒"}, Reason: "历史成交客户，近期浏览过新盘"},
		{ID: "c3", Name: "王女士", AvatarRef: "https://picsum.photos/seed/c3/100/100", Tags: []string{"价格敏感"}, Reason: "多次对比周边竞品价格"},
	}
}

func audienceMessage() conversation.Message {
	msg := conversation.AssistantMessage(ReplyAudience)
	msg.AudienceCard = &conversation.AudienceCard{TotalCount: AudienceTotal, Samples: audienceSamples()}
	return msg
}

func deliveryTasks(stage int) []conversation.Task {
	tasks := []conversation.Task{
		conversation.DoneTask("t1", taskSelect),
		conversation.ProcessingTask("t2", taskContent, 30),
		conversation.PendingTask("t3", taskPush),
	}
	if stage >= 1 {
		tasks[1] = conversation.DoneTask("t2", taskContent)
		tasks[2] = conversation.ProcessingTask("t3", taskPush, 20)
	}
	if stage >= 2 {
		tasks[2] = conversation.DoneTask("t3", taskPush)
	}
	return tasks
}
