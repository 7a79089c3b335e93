package otel

// Resource 描述产生遥测数据的实体（服务、容器、主机等），
// 这些属性会附加到所有 spans 和 metrics 上用于标识数据来源。
// 本包只负责初始化全局 TracerProvider / MeterProvider，
// 具体业务指标见 pkg/metrics。
